package parquet

import (
	"fmt"

	"github.com/segmentio-labs/parquetrec/format"
)

// CompileSchema is the Schema Compiler of spec §4.1: it walks a Record
// Descriptor and produces the MessageType a PrimitiveWriter opens a file
// with. Columns appear in declared field order.
//
// Grounded on the teacher's schema.go Compute() (repetition/definition
// level bookkeeping) and node.go's Optional/Repeated/Required composition,
// generalized to walk an explicit Descriptor instead of a reflect.Type.
func CompileSchema(name string, rec *Record, naming NamingStrategy) (*format.MessageType, error) {
	c := &compiler{naming: naming, fieldIDs: map[*Record]map[int32]bool{}}
	fields, err := c.compileFields(rec, nil)
	if err != nil {
		return nil, err
	}
	return &format.MessageType{Name: name, Fields: fields}, nil
}

type compiler struct {
	naming   NamingStrategy
	fieldIDs map[*Record]map[int32]bool
	stack    []*Record
}

func (c *compiler) compileFields(rec *Record, path []string) ([]*format.Node, error) {
	for _, seen := range c.stack {
		if seen == rec {
			return nil, &Error{Kind: UnsupportedTarget, Path: path, Reason: "record is recursive"}
		}
	}
	c.stack = append(c.stack, rec)
	defer func() { c.stack = c.stack[:len(c.stack)-1] }()

	seenIDs := map[int32]bool{}
	nodes := make([]*format.Node, 0, len(rec.Fields))
	for _, f := range rec.Fields {
		if f.FieldID != nil {
			if seenIDs[*f.FieldID] {
				return nil, &Error{Kind: DuplicateFieldId, Path: path, Reason: fmt.Sprintf("field id %d duplicated", *f.FieldID)}
			}
			seenIDs[*f.FieldID] = true
		}
		n, err := c.compileField(f, append(path, targetName(f, c.naming)))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (c *compiler) compileField(f *Field, path []string) (*format.Node, error) {
	name := targetName(f, c.naming)
	n, err := c.compileDescriptor(f.Desc, f.NotNull, name, path)
	if err != nil {
		return nil, err
	}
	n.FieldID = f.FieldID
	return n, nil
}

func (c *compiler) compileDescriptor(d Descriptor, notNull bool, name string, path []string) (*format.Node, error) {
	switch t := d.(type) {
	case *Primitive:
		phys := physicalTypeOf(t.KindOf)
		return &format.Node{Name: name, Repetition: repetitionOf(!t.nullable || notNull), Physical: &phys}, nil

	case *LogicalBinary:
		phys, length := physicalTypeOfLogical(t.KindOf)
		return &format.Node{
			Name:       name,
			Repetition: repetitionOf(!t.nullable || notNull),
			Physical:   &phys,
			TypeLength: length,
			Logical:    logicalAnnotationOfBinary(t.KindOf),
		}, nil

	case *Decimal:
		if err := t.validate(); err != nil {
			return nil, err
		}
		phys, length := physicalTypeOfDecimal(t.Precision)
		return &format.Node{
			Name:       name,
			Repetition: repetitionOf(!t.nullable || notNull),
			Physical:   &phys,
			TypeLength: length,
			Logical:    &format.LogicalAnnotation{Kind: format.DecimalLogical, Precision: t.Precision, Scale: t.Scale},
		}, nil

	case *Temporal:
		return c.compileTemporal(t, notNull, name), nil

	case *List:
		return c.compileList(t, notNull, name, path)

	case *Map:
		return c.compileMap(t, notNull, name, path)

	case *Record:
		fields, err := c.compileFields(t, path)
		if err != nil {
			return nil, err
		}
		return &format.Node{Name: name, Repetition: repetitionOf(!t.Nullable() || notNull), Fields: fields}, nil

	default:
		return nil, &Error{Kind: UnsupportedTarget, Path: path, Reason: "unresolved descriptor"}
	}
}

func (c *compiler) compileTemporal(t *Temporal, notNull bool, name string) *format.Node {
	rep := repetitionOf(!t.nullable || notNull)
	switch t.KindOf {
	case TemporalDate:
		phys := format.Int32
		return &format.Node{Name: name, Repetition: rep, Physical: &phys, Logical: &format.LogicalAnnotation{Kind: format.DateLogical}}
	case TemporalTime:
		phys := timePhysical(t.Unit)
		return &format.Node{Name: name, Repetition: rep, Physical: &phys, Logical: &format.LogicalAnnotation{Kind: format.TimeLogical, Unit: timeUnitOf(t.Unit)}}
	case TemporalLocalDateTime:
		phys := format.Int64
		return &format.Node{Name: name, Repetition: rep, Physical: &phys, Logical: &format.LogicalAnnotation{Kind: format.TimestampLogical, Unit: timeUnitOf(t.Unit), AdjustedToUTC: false}}
	default: // TemporalInstant
		phys := format.Int64
		return &format.Node{Name: name, Repetition: rep, Physical: &phys, Logical: &format.LogicalAnnotation{Kind: format.TimestampLogical, Unit: timeUnitOf(t.Unit), AdjustedToUTC: true}}
	}
}

func timePhysical(u TimeUnit) format.PhysicalType {
	if u == Millis {
		return format.Int32
	}
	return format.Int64
}

// compileList emits one of the three LIST encodings (spec §3.2, §4.1).
func (c *compiler) compileList(t *List, notNull bool, name string, path []string) (*format.Node, error) {
	rep := repetitionOf(!t.nullable || notNull) // list wrapper is OPTIONAL unless marked not-null
	elemPath := append(path, "<element>")

	switch t.Encoding {
	case OneLevel:
		elem, err := c.compileDescriptor(t.Element, true, name, elemPath)
		if err != nil {
			return nil, err
		}
		elem.Repetition = format.Repeated
		elem.FieldID = nil
		return elem, nil

	case TwoLevel:
		elem, err := c.compileDescriptor(t.Element, true, "element", elemPath)
		if err != nil {
			return nil, err
		}
		elem.Repetition = format.Repeated
		elem.FieldID = nil
		return &format.Node{
			Name:       name,
			Repetition: rep,
			Logical:    &format.LogicalAnnotation{Kind: format.ListLogical},
			Fields:     []*format.Node{elem},
		}, nil

	default: // ThreeLevel
		elem, err := c.compileDescriptor(t.Element, t.Element != nil && !t.Element.Nullable(), "element", elemPath)
		if err != nil {
			return nil, err
		}
		elem.FieldID = nil
		list := &format.Node{Name: "list", Repetition: format.Repeated, Fields: []*format.Node{elem}}
		return &format.Node{
			Name:       name,
			Repetition: rep,
			Logical:    &format.LogicalAnnotation{Kind: format.ListLogical},
			Fields:     []*format.Node{list},
		}, nil
	}
}

// compileMap emits the standard key_value group (spec §3.2, §4.1).
func (c *compiler) compileMap(t *Map, notNull bool, name string, path []string) (*format.Node, error) {
	rep := repetitionOf(!t.nullable || notNull)
	key, err := c.compileDescriptor(t.Key, true, "key", append(path, "<key>"))
	if err != nil {
		return nil, err
	}
	key.Repetition = format.Required
	key.FieldID = nil

	valueNotNull := t.Value != nil && !t.Value.Nullable()
	value, err := c.compileDescriptor(t.Value, valueNotNull, "value", append(path, "<value>"))
	if err != nil {
		return nil, err
	}
	value.FieldID = nil

	kv := &format.Node{Name: "key_value", Repetition: format.Repeated, Fields: []*format.Node{key, value}}
	return &format.Node{
		Name:       name,
		Repetition: rep,
		Logical:    &format.LogicalAnnotation{Kind: format.MapLogical},
		Fields:     []*format.Node{kv},
	}, nil
}

// repetitionOf maps the spec §4.1 rule: REQUIRED if required is true,
// otherwise OPTIONAL.
func repetitionOf(required bool) format.Repetition {
	if required {
		return format.Required
	}
	return format.Optional
}
