package parquet

import (
	"reflect"
)

// AssembleRecord is the Record Assembler of spec §4.5: given a target
// descriptor and a record instance, it emits (rep, def, value) for every
// leaf in file-declared order as a flat, column-ordered Row.
//
// Grounded on the teacher's traverse.go recursive field-walking closures,
// generalized to walk an explicit Descriptor tree via Field.Accessor
// instead of runtime struct reflection at traversal time.
func AssembleRecord(rec *Record, instance interface{}) (Row, error) {
	a := &assembler{leafCol: leafDescriptorIndex(rec)}
	var row Row
	if err := a.fieldsPresent(rec.Fields, instance, 0, 0, &row); err != nil {
		return nil, err
	}
	return row, nil
}

type assembler struct {
	leafCol map[Descriptor]int
}

// leafDescriptorIndex assigns each leaf descriptor in rec's field tree its
// column index in depth-first, file-declared order (spec §3.3, §4.1) — the
// same order `schema.go`'s `compileFields` walks to produce the file
// schema, and `columns.go`'s `leafColumnIndex` walks to index the compiled
// schema. A list/map's element/key/value descriptor is visited exactly
// once here regardless of how many repetitions are later assembled, so
// every repetition of a given leaf reuses the same fixed column index
// instead of a running per-value counter advancing past it.
func leafDescriptorIndex(rec *Record) map[Descriptor]int {
	idx := map[Descriptor]int{}
	col := 0
	var walkFields func(fields []*Field)
	var walkDesc func(d Descriptor)
	walkDesc = func(d Descriptor) {
		switch t := d.(type) {
		case *Record:
			walkFields(t.Fields)
		case *List:
			walkDesc(t.Element)
		case *Map:
			walkDesc(t.Key)
			walkDesc(t.Value)
		default:
			idx[d] = col
			col++
		}
	}
	walkFields = func(fields []*Field) {
		for _, f := range fields {
			walkDesc(f.Desc)
		}
	}
	walkFields(rec.Fields)
	return idx
}

// assembleDescriptor handles one field's descriptor at the given (rep, def)
// position. required reports whether the position is modeled as REQUIRED
// in the compiled schema (Field.NotNull or a non-nullable descriptor):
// absence at a required position is an error; absence at an optional
// position is propagated structurally down the subtree.
func (a *assembler) assembleDescriptor(desc Descriptor, required bool, value interface{}, present bool, rep, def int, row *Row) error {
	if !present {
		if required {
			return &Error{Kind: NullForRequired, Reason: "required value missing"}
		}
		a.emitAbsent(desc, rep, def, row)
		return nil
	}

	defHere := def
	if !required {
		defHere++
	}

	switch d := desc.(type) {
	case *Primitive:
		v, err := encodePrimitive(d.KindOf, value)
		if err != nil {
			return err
		}
		a.appendLeaf(desc, rep, defHere, v, row)
		return nil

	case *LogicalBinary:
		v, err := encodeLogicalBinary(d, value)
		if err != nil {
			return err
		}
		a.appendLeaf(desc, rep, defHere, v, row)
		return nil

	case *Decimal:
		v, err := encodeDecimalValue(d, value)
		if err != nil {
			return err
		}
		a.appendLeaf(desc, rep, defHere, v, row)
		return nil

	case *Temporal:
		v, err := encodeTemporal(d, value)
		if err != nil {
			return err
		}
		a.appendLeaf(desc, rep, defHere, v, row)
		return nil

	case *Record:
		return a.fieldsPresent(d.Fields, value, rep, defHere, row)

	case *List:
		return a.listPresent(d, value, rep, defHere, row)

	case *Map:
		return a.mapPresent(d, value, rep, defHere, row)

	default:
		return &Error{Kind: UnsupportedTarget, Reason: "unresolved descriptor"}
	}
}

func (a *assembler) appendLeaf(desc Descriptor, rep, def int, value interface{}, row *Row) {
	*row = append(*row, NewValue(a.leafCol[desc], rep, def, value))
}

// emitAbsent produces the structural placeholder row(s) for a descriptor
// whose enclosing slot is absent: a null optional leaf, a null record's
// fields, a null or empty list's element, or a null or empty map's key and
// value (spec §4.4 "Record assembly", §4.5 "Record: if null, propagate
// def-of-parent to every leaf in subtree").
func (a *assembler) emitAbsent(desc Descriptor, rep, def int, row *Row) {
	switch d := desc.(type) {
	case *Record:
		for _, f := range d.Fields {
			a.emitAbsent(f.Desc, rep, def, row)
		}
	case *List:
		a.emitAbsent(d.Element, rep, def, row)
	case *Map:
		a.emitAbsent(d.Key, rep, def, row)
		a.emitAbsent(d.Value, rep, def, row)
	default:
		*row = append(*row, NullValue(a.leafCol[desc], rep, def))
	}
}

func (a *assembler) fieldsPresent(fields []*Field, instance interface{}, rep, def int, row *Row) error {
	for _, f := range fields {
		v, ok := f.Accessor(instance)
		required := f.NotNull || !f.Desc.Nullable()
		if err := a.assembleDescriptor(f.Desc, required, v, ok, rep, def, row); err != nil {
			return err
		}
	}
	return nil
}

// elementRequired reports whether a list's element slot is required (may
// not be null): only
// the three-level encoding supports a null element (spec §3.2, §4.1); the
// one/two-level encodings' repeated node carries the element directly and
// can never be null.
func elementRequired(d *List) bool {
	if d.Encoding != ThreeLevel {
		return true
	}
	return d.Element == nil || !d.Element.Nullable()
}

// listPresent does not reserve a definition level for the three-level
// encoding's "list" wrapper entry itself (see the limitation note in
// DESIGN.md's Schema Projector section): an empty list and a one-element list of a REQUIRED
// element collide on the same def value here.
func (a *assembler) listPresent(d *List, value interface{}, rep, def int, row *Row) error {
	elems, err := toElementSlice(value)
	if err != nil {
		return err
	}
	if len(elems) == 0 {
		a.emitAbsent(d.Element, rep, def, row)
		return nil
	}

	required := elementRequired(d)
	innerRep := rep + 1
	for i, e := range elems {
		r := rep
		if i > 0 {
			r = innerRep
		}
		v, present := derefNilable(e)
		if err := a.assembleDescriptor(d.Element, required, v, present, r, def, row); err != nil {
			return err
		}
	}
	return nil
}

func (a *assembler) mapPresent(d *Map, value interface{}, rep, def int, row *Row) error {
	keys, values, err := toKeyValueSlices(value)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		a.emitAbsent(d.Key, rep, def, row)
		a.emitAbsent(d.Value, rep, def, row)
		return nil
	}

	valueRequired := d.Value == nil || !d.Value.Nullable()
	innerRep := rep + 1
	for i := range keys {
		r := rep
		if i > 0 {
			r = innerRep
		}
		if err := a.assembleDescriptor(d.Key, true, keys[i], true, r, def, row); err != nil {
			return err
		}
		v, present := derefNilable(values[i])
		if err := a.assembleDescriptor(d.Value, valueRequired, v, present, r, def, row); err != nil {
			return err
		}
	}
	return nil
}

// toElementSlice normalizes a write-path list value (slice/array, or a
// map[T]struct{} representing an unordered set target used as input) into
// an ordered slice of raw elements.
func toElementSlice(value interface{}) ([]interface{}, error) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]interface{}, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	case reflect.Map:
		out := make([]interface{}, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out = append(out, iter.Key().Interface())
		}
		return out, nil
	default:
		return nil, &Error{Kind: UnsupportedTarget, Reason: "list value is not a slice, array, or set"}
	}
}

// toKeyValueSlices normalizes a write-path map value into parallel key/value
// slices in iteration order, supporting both plain Go maps and this
// package's ordered container types (container.go).
func toKeyValueSlices(value interface{}) ([]interface{}, []interface{}, error) {
	switch m := value.(type) {
	case *LinkedHashMap:
		keys := m.Keys()
		vals := make([]interface{}, len(keys))
		for i, k := range keys {
			vals[i], _ = m.Get(k)
		}
		return keys, vals, nil
	case *TreeMap:
		keys := m.Keys()
		vals := make([]interface{}, len(keys))
		for i, k := range keys {
			vals[i], _ = m.Get(k)
		}
		return keys, vals, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map {
		return nil, nil, &Error{Kind: UnsupportedTarget, Reason: "map value is not a map"}
	}
	keys := make([]interface{}, 0, rv.Len())
	vals := make([]interface{}, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key().Interface())
		vals = append(vals, iter.Value().Interface())
	}
	return keys, vals, nil
}

// derefNilable unwraps a pointer-shaped element/value, reporting presence
// the same way Field accessors do (spec §6.2; descriptor.go's
// reflectAccessor).
func derefNilable(v interface{}) (interface{}, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil, false
		}
		return rv.Elem().Interface(), true
	default:
		return v, true
	}
}
