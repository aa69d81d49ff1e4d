package parquet

import (
	"reflect"

	"github.com/segmentio-labs/parquetrec/format"
)

// MaterializeRecord is the Record Materializer of spec §4.4: given a
// Projection and the flat, column-ordered Row an upstream PrimitiveReader
// produced for one record, it reconstructs a pointer to a new instance of
// the target Record's Go type.
//
// Grounded on the teacher's struct_builder.go event-driven reassembly
// (Begin/Primitive/GroupBegin/GroupEnd/RepeatedBegin/RepeatedEnd/KVBegin/
// KVEnd), reworked into a pull-based walk over the FieldPlan tree that
// drives itself from per-column cursors instead of an external event
// producer, since this repo's Row already carries one whole record's
// triples rather than a continuous multi-record column chunk.
//
// Known limitation: list-of-list / list-of-map nesting two or more
// repeated levels deep is reassembled using each level's own RepDepth
// threshold on the deepest leaf column beneath it. This is exact for a
// single level of repetition (the common case, and the one spec.md's
// worked scenarios exercise) but is not the fully general Dremel
// algorithm for disambiguating repetition boundaries across multiple
// nested repeated levels sharing one leaf column.
func MaterializeRecord(proj *Projection, goType reflect.Type, row Row) (interface{}, error) {
	return MaterializeRecordInRowGroup(proj, goType, row, nil)
}

// MaterializeRecordInRowGroup is MaterializeRecord with a Dictionary
// scoped to the enclosing row group, giving decoded string/enum/uuid
// values the reference-equality sharing spec §4.4 requires for binary
// columns read from a dictionary-encoded page. Pass the same *Dictionary
// across every record in one row group and a fresh one (or nil) per
// row-group boundary.
func MaterializeRecordInRowGroup(proj *Projection, goType reflect.Type, row Row, dict *Dictionary) (interface{}, error) {
	state := &mstate{colIndex: leafColumnIndex(proj.Schema), table: map[int][]Value{}, cursor: map[int]int{}}
	for _, v := range row {
		state.table[v.ColumnIndex()] = append(state.table[v.ColumnIndex()], v)
	}
	m := &materializer{dict: dict}
	sv := reflect.New(goType).Elem()
	if err := m.fillFields(proj.Plan, sv, state); err != nil {
		return nil, err
	}
	return sv.Addr().Interface(), nil
}

type materializer struct {
	dict *Dictionary
}

type mstate struct {
	colIndex map[*format.Node]int
	table    map[int][]Value
	cursor   map[int]int
}

func (s *mstate) peek(col int) (Value, bool) {
	i := s.cursor[col]
	vals := s.table[col]
	if i >= len(vals) {
		return Value{}, false
	}
	return vals[i], true
}

func (s *mstate) next(col int) (Value, bool) {
	v, ok := s.peek(col)
	if ok {
		s.cursor[col]++
	}
	return v, ok
}

func (m *materializer) fillFields(fields []FieldPlan, sv reflect.Value, state *mstate) error {
	for _, fp := range fields {
		if fp.Missing {
			fv := sv.FieldByIndex(fp.Field.goIndex)
			setField(fv, nil, false)
			continue
		}
		v, present, err := m.consume(fp, state)
		if err != nil {
			return err
		}
		fv := sv.FieldByIndex(fp.Field.goIndex)
		setField(fv, v, present)
	}
	return nil
}

func (m *materializer) consume(fp FieldPlan, state *mstate) (interface{}, bool, error) {
	switch {
	case fp.Record != nil:
		return m.consumeRecordUnit(fp, state)
	case fp.List != nil:
		return m.consumeListUnit(fp, state)
	case fp.Map != nil:
		return m.consumeMapUnit(fp, state)
	default:
		return m.consumeLeaf(fp, state)
	}
}

func (m *materializer) consumeLeaf(fp FieldPlan, state *mstate) (interface{}, bool, error) {
	col, ok := state.colIndex[fp.FileNode]
	if !ok {
		return nil, false, &Error{Kind: UnsupportedTarget, Reason: "no column index for leaf node"}
	}
	v, ok := state.next(col)
	if !ok {
		return nil, false, &Error{Kind: MalformedLevels, Reason: "column exhausted while materializing leaf"}
	}
	if v.IsNull() {
		return nil, false, nil
	}
	decoded, err := m.decodeLeaf(fp, v.Data())
	if err != nil {
		return nil, false, err
	}
	if _, ok := fp.Field.Desc.(*LogicalBinary); ok && m.dict != nil {
		if raw, ok := v.Data().([]byte); ok {
			decoded = m.dict.Intern(col, raw, decoded)
		}
	}
	return decoded, true, nil
}

func (m *materializer) decodeLeaf(fp FieldPlan, raw interface{}) (interface{}, error) {
	switch d := fp.Field.Desc.(type) {
	case *Primitive:
		return decodePrimitive(d.KindOf, raw), nil
	case *LogicalBinary:
		b, _ := raw.([]byte)
		return decodeLogicalBinary(d, annotationKind(fp.FileNode.Logical), b)
	case *Decimal:
		return decimalFromRaw(raw, *fp.FileNode.Physical, fp.FileNode.Logical.Scale), nil
	case *Temporal:
		unit := format.Millis
		if fp.FileNode.Logical != nil {
			unit = fp.FileNode.Logical.Unit
		}
		return decodeTemporal(d, unit, raw), nil
	default:
		return raw, nil
	}
}

func annotationKind(l *format.LogicalAnnotation) format.LogicalKind {
	if l == nil {
		return format.NoLogical
	}
	return l.Kind
}

func (m *materializer) consumeRecordUnit(fp FieldPlan, state *mstate) (interface{}, bool, error) {
	rp := fp.Record
	rec := fp.Field.Desc.(*Record)

	repCol, err := firstLeafColumn(fp, state.colIndex)
	if err != nil {
		return nil, false, err
	}
	peeked, ok := state.peek(repCol)
	if !ok {
		return nil, false, &Error{Kind: MalformedLevels, Reason: "column exhausted while materializing record"}
	}
	if peeked.DefinitionLevel() < rp.DefThreshold {
		m.consumeAbsent(fp, state)
		return nil, false, nil
	}

	sv := reflect.New(rec.GoType).Elem()
	if err := m.fillFields(rp.Fields, sv, state); err != nil {
		return nil, false, err
	}
	return sv.Addr().Interface(), true, nil
}

func (m *materializer) consumeListUnit(fp FieldPlan, state *mstate) (interface{}, bool, error) {
	lp := fp.List
	listDesc := fp.Field.Desc.(*List)

	repCol, err := firstLeafColumn(lp.Element, state.colIndex)
	if err != nil {
		return nil, false, err
	}
	peeked, ok := state.peek(repCol)
	if !ok {
		return nil, false, &Error{Kind: MalformedLevels, Reason: "column exhausted while materializing list"}
	}
	if peeked.DefinitionLevel() < lp.DefThreshold {
		m.consumeAbsent(lp.Element, state)
		return nil, false, nil
	}

	builder := newListBuilder(listDesc)
	if peeked.DefinitionLevel() == lp.DefThreshold {
		m.consumeAbsent(lp.Element, state)
		return builder.build(), true, nil
	}

	count := 0
	for {
		peeked, ok := state.peek(repCol)
		if !ok {
			break
		}
		if count > 0 && peeked.RepetitionLevel() < lp.RepDepth {
			break
		}
		v, present, err := m.consume(lp.Element, state)
		if err != nil {
			return nil, false, err
		}
		if present {
			builder.append(v)
		} else {
			builder.append(nil)
		}
		count++
	}
	return builder.build(), true, nil
}

func (m *materializer) consumeMapUnit(fp FieldPlan, state *mstate) (interface{}, bool, error) {
	mp := fp.Map
	mapDesc := fp.Field.Desc.(*Map)

	repCol, err := firstLeafColumn(mp.Key, state.colIndex)
	if err != nil {
		return nil, false, err
	}
	peeked, ok := state.peek(repCol)
	if !ok {
		return nil, false, &Error{Kind: MalformedLevels, Reason: "column exhausted while materializing map"}
	}
	if peeked.DefinitionLevel() < mp.DefThreshold {
		m.consumeAbsent(mp.Key, state)
		m.consumeAbsent(mp.Value, state)
		return nil, false, nil
	}

	builder := newMapBuilder(mapDesc)
	if peeked.DefinitionLevel() == mp.DefThreshold {
		m.consumeAbsent(mp.Key, state)
		m.consumeAbsent(mp.Value, state)
		return builder.build(), true, nil
	}

	count := 0
	for {
		peeked, ok := state.peek(repCol)
		if !ok {
			break
		}
		if count > 0 && peeked.RepetitionLevel() < mp.RepDepth {
			break
		}
		k, _, err := m.consume(mp.Key, state)
		if err != nil {
			return nil, false, err
		}
		v, present, err := m.consume(mp.Value, state)
		if err != nil {
			return nil, false, err
		}
		if present {
			builder.put(k, v)
		} else {
			builder.put(k, nil)
		}
		count++
	}
	return builder.build(), true, nil
}

// consumeAbsent advances one entry in every leaf column beneath fp without
// decoding it, mirroring the single structural placeholder row the Record
// Assembler emits for an absent record/list/map (spec §4.5).
func (m *materializer) consumeAbsent(fp FieldPlan, state *mstate) {
	switch {
	case fp.Missing:
		return
	case fp.Record != nil:
		for _, child := range fp.Record.Fields {
			m.consumeAbsent(child, state)
		}
	case fp.List != nil:
		m.consumeAbsent(fp.List.Element, state)
	case fp.Map != nil:
		m.consumeAbsent(fp.Map.Key, state)
		m.consumeAbsent(fp.Map.Value, state)
	default:
		if col, ok := state.colIndex[fp.FileNode]; ok {
			state.next(col)
		}
	}
}

// firstLeafColumn finds the column index of the first leaf in file order
// beneath fp, used to peek the representative (rep, def) pair that drives
// a container's presence and iteration-boundary decisions.
func firstLeafColumn(fp FieldPlan, colIndex map[*format.Node]int) (int, error) {
	switch {
	case fp.Missing:
		return 0, &Error{Kind: UnsupportedTarget, Reason: "field has no backing column"}
	case fp.Record != nil:
		for _, child := range fp.Record.Fields {
			if child.Missing {
				continue
			}
			return firstLeafColumn(child, colIndex)
		}
		return 0, &Error{Kind: UnsupportedTarget, Reason: "record has no columns to materialize from"}
	case fp.List != nil:
		return firstLeafColumn(fp.List.Element, colIndex)
	case fp.Map != nil:
		return firstLeafColumn(fp.Map.Key, colIndex)
	default:
		col, ok := colIndex[fp.FileNode]
		if !ok {
			return 0, &Error{Kind: UnsupportedTarget, Reason: "no column index for leaf node"}
		}
		return col, nil
	}
}

// setField assigns a materialized value into a target struct field,
// handling the pointer/interface/concrete-type shapes a Field's Go struct
// field may take (spec §6.2). Absence zeroes the field (spec §4.4 "Default
// values when fields are missing").
func setField(fv reflect.Value, value interface{}, present bool) {
	if !present || value == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return
	}
	rv := reflect.ValueOf(value)

	if fv.Kind() != reflect.Ptr && rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if fv.Kind() == reflect.Ptr && rv.Kind() != reflect.Ptr {
		ptr := reflect.New(fv.Type().Elem())
		assignConvert(ptr.Elem(), rv)
		fv.Set(ptr)
		return
	}
	if fv.Kind() == reflect.Interface {
		fv.Set(rv)
		return
	}
	assignConvert(fv, rv)
}

func assignConvert(dst, src reflect.Value) {
	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return
	}
	if src.Type().ConvertibleTo(dst.Type()) {
		dst.Set(src.Convert(dst.Type()))
		return
	}
	dst.Set(src)
}
