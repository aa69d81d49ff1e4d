package parquet

import (
	"fmt"
	"reflect"
)

// Descriptor is the canonical, immutable representation of a target type
// (spec §3.1). It replaces runtime reflection over user types with an
// explicit, builder-time description: the schema compiler, projector,
// assembler and materializer all dispatch on a Descriptor's concrete
// variant rather than on a reflect.Type (spec §9, "Polymorphism").
//
// Descriptor is a closed, tagged union; the variants below are the only
// implementations and every switch over Descriptor in this package is
// expected to be exhaustive.
type Descriptor interface {
	isDescriptor()
	// Nullable reports whether an absent value is representable for this
	// descriptor when used as a Field's type (primitives only meaningfully
	// vary; composite descriptors are governed by the owning Field's
	// NotNull flag instead).
	Nullable() bool
}

// Primitive is a fixed-width scalar (spec §3.1).
type Primitive struct {
	KindOf    Kind
	nullable  bool
}

func NewPrimitive(k Kind, nullable bool) *Primitive { return &Primitive{KindOf: k, nullable: nullable} }

func (*Primitive) isDescriptor()     {}
func (p *Primitive) Nullable() bool  { return p.nullable }
func (p *Primitive) String() string  { return p.KindOf.String() }

// LogicalBinary is a binary-backed logical type: string, enum, uuid, json,
// bson or raw-binary (spec §3.1).
type LogicalBinary struct {
	KindOf   LogicalBinaryKind
	Symbols  []string // optional enum name-set; empty means unconstrained
	nullable bool
}

func NewLogicalBinary(k LogicalBinaryKind, nullable bool) *LogicalBinary {
	return &LogicalBinary{KindOf: k, nullable: nullable}
}

func (*LogicalBinary) isDescriptor()    {}
func (l *LogicalBinary) Nullable() bool { return l.nullable }

// Decimal is a fixed-point number (spec §3.1).
type Decimal struct {
	Precision int32 // 1..38
	Scale     int32 // 0..Precision
	Rounding  Rounding
	nullable  bool
}

func NewDecimal(precision, scale int32, rounding Rounding, nullable bool) (*Decimal, error) {
	d := &Decimal{Precision: precision, Scale: scale, Rounding: rounding, nullable: nullable}
	return d, d.validate()
}

func (d *Decimal) validate() error {
	if d.Precision < 1 || d.Precision > 38 {
		return &Error{Kind: UnsupportedTarget, Reason: fmt.Sprintf("decimal precision %d out of range 1..38", d.Precision)}
	}
	if d.Scale < 0 || d.Scale > d.Precision {
		return &Error{Kind: UnsupportedTarget, Reason: fmt.Sprintf("decimal scale %d out of range 0..%d", d.Scale, d.Precision)}
	}
	return nil
}

func (*Decimal) isDescriptor()    {}
func (d *Decimal) Nullable() bool { return d.nullable }

// Temporal is a date/time value (spec §3.1). Unit is meaningful for Time,
// LocalDateTime and Instant; ignored for Date.
type Temporal struct {
	KindOf   TemporalKind
	Unit     TimeUnit
	nullable bool
}

func NewTemporal(k TemporalKind, unit TimeUnit, nullable bool) *Temporal {
	return &Temporal{KindOf: k, Unit: unit, nullable: nullable}
}

func (*Temporal) isDescriptor()    {}
func (t *Temporal) Nullable() bool { return t.nullable }

// List is a repeated element (spec §3.1, §3.2).
type List struct {
	Element  Descriptor
	Encoding ListEncoding
	Container ListContainer
	GoType   reflect.Type // required when Container == SpecificListType
	nullable bool         // the list itself is absent vs present-empty
}

func NewList(element Descriptor, encoding ListEncoding, container ListContainer, nullable bool) (*List, error) {
	if element == nil {
		return nil, &Error{Kind: UnsupportedTarget, Reason: "list element descriptor is unresolved"}
	}
	return &List{Element: element, Encoding: encoding, Container: container, nullable: nullable}, nil
}

func (*List) isDescriptor()    {}
func (l *List) Nullable() bool { return l.nullable }

// Map is a key/value collection (spec §3.1, §3.2).
type Map struct {
	Key      Descriptor
	Value    Descriptor
	Container MapContainer
	GoType   reflect.Type // required when Container == MapSpecific
	nullable bool
}

func NewMap(key, value Descriptor, container MapContainer, nullable bool) (*Map, error) {
	if key == nil || value == nil {
		return nil, &Error{Kind: UnsupportedTarget, Reason: "map key or value descriptor is unresolved"}
	}
	switch key.(type) {
	case *List, *Map:
		return nil, &Error{Kind: UnsupportedTarget, Reason: "map key may not be a list or map"}
	}
	return &Map{Key: key, Value: value, Container: container, nullable: nullable}, nil
}

func (*Map) isDescriptor()    {}
func (m *Map) Nullable() bool { return m.nullable }

// Field is one member of a Record (spec §3.1).
type Field struct {
	SourceName string
	Alias      string // "" means no alias
	Desc       Descriptor
	NotNull    bool
	FieldID    *int32

	// Accessor extracts this field's value from a record instance on the
	// write path (spec §6.2). If nil, it is resolved by reflection against
	// the owning Record's GoType using SourceName as the Go struct field
	// name (grounded on the teacher's struct_planner.go blueprint binding).
	Accessor FieldAccessor

	goIndex []int // resolved struct field index path, set by RecordBuilder.Build
}

// FieldAccessor extracts a field's value from a record instance. Returns
// (value, false) to represent a null/absent value.
type FieldAccessor func(record interface{}) (value interface{}, present bool)

// Record is an ordered collection of named fields (spec §3.1).
type Record struct {
	GoType   reflect.Type // the Go struct type instances use
	Fields   []*Field
	notNull  bool
}

func (*Record) isDescriptor() {}
func (r *Record) Nullable() bool { return !r.notNull }

// fieldBySource looks up a field by its SourceName (not by the resolved
// target name of naming.go).
func (r *Record) fieldBySource(name string) *Field {
	for _, f := range r.Fields {
		if f.SourceName == name {
			return f
		}
	}
	return nil
}

// RecordBuilder is the construction surface for Record descriptors
// (spec §6.2): a builder that accepts, per field, (name, type, accessor)
// plus nullability/alias/field-id/decimal/list-encoding/container flags.
type RecordBuilder struct {
	goType  reflect.Type
	notNull bool
	fields  []*Field
	err     error
}

// RecordOf starts a RecordBuilder bound to the Go struct type of prototype.
// prototype must be a struct or a pointer to a struct; it is never read,
// only used to resolve field accessors by name.
func RecordOf(prototype interface{}) *RecordBuilder {
	t := reflect.TypeOf(prototype)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return &RecordBuilder{err: &Error{Kind: UnsupportedTarget, Reason: "record prototype must be a struct"}}
	}
	return &RecordBuilder{goType: t}
}

// NotNull marks the record itself as required when embedded as a field of
// another record.
func (b *RecordBuilder) NotNull() *RecordBuilder {
	b.notNull = true
	return b
}

// FieldOption customizes a field registered via RecordBuilder.Field.
type FieldOption func(*Field)

func Alias(name string) FieldOption     { return func(f *Field) { f.Alias = name } }
func FieldID(id int32) FieldOption      { return func(f *Field) { v := id; f.FieldID = &v } }
func NotNull() FieldOption              { return func(f *Field) { f.NotNull = true } }
func WithAccessor(a FieldAccessor) FieldOption { return func(f *Field) { f.Accessor = a } }

// Field registers a field on the record under construction.
func (b *RecordBuilder) Field(sourceName string, desc Descriptor, opts ...FieldOption) *RecordBuilder {
	if b.err != nil {
		return b
	}
	f := &Field{SourceName: sourceName, Desc: desc}
	for _, opt := range opts {
		opt(f)
	}
	b.fields = append(b.fields, f)
	return b
}

// Build validates the record under construction (field-id uniqueness,
// recursion-freedom, decimal/map invariants already checked at descriptor
// construction time) and resolves Go struct field accessors.
func (b *RecordBuilder) Build() (*Record, error) {
	if b.err != nil {
		return nil, b.err
	}
	r := &Record{GoType: b.goType, Fields: b.fields, notNull: b.notNull}

	seen := map[int32]bool{}
	for _, f := range r.Fields {
		if f.FieldID != nil {
			if seen[*f.FieldID] {
				return nil, &Error{Kind: DuplicateFieldId, Reason: fmt.Sprintf("field id %d duplicated", *f.FieldID)}
			}
			seen[*f.FieldID] = true
		}
		if f.Accessor == nil {
			sf, ok := b.goType.FieldByName(f.SourceName)
			if !ok {
				return nil, &Error{Kind: UnsupportedTarget, Reason: fmt.Sprintf("no Go field named %q on %s", f.SourceName, b.goType)}
			}
			f.goIndex = sf.Index
			f.Accessor = reflectAccessor(sf.Index, f.Desc)
		}
	}

	if err := checkRecursion(r, nil); err != nil {
		return nil, err
	}
	return r, nil
}

// checkRecursion walks the descriptor tree maintaining a stack of Record Go
// types; revisiting one is a construction-time error (spec §3.1 invariant,
// §9 "Cyclic records").
func checkRecursion(d Descriptor, stack []reflect.Type) error {
	switch t := d.(type) {
	case *Record:
		for _, seen := range stack {
			if seen == t.GoType {
				return &Error{Kind: UnsupportedTarget, Reason: fmt.Sprintf("record %s is recursive", t.GoType)}
			}
		}
		stack = append(stack, t.GoType)
		for _, f := range t.Fields {
			if err := checkRecursion(f.Desc, stack); err != nil {
				return err
			}
		}
	case *List:
		return checkRecursion(t.Element, stack)
	case *Map:
		if err := checkRecursion(t.Key, stack); err != nil {
			return err
		}
		return checkRecursion(t.Value, stack)
	}
	return nil
}

// reflectAccessor resolves a FieldAccessor by reflect.Value.FieldByIndex.
// Nullable fields (pointer, slice, map) report absence via nilness, the
// same convention the teacher's traverseFuncOfOptional uses in traverse.go
// ("value.IsZero()" on a pointer-shaped reflect.Value). Non-pointer-shaped
// scalars are always present; a nullable primitive field must be backed by
// a Go pointer type to be able to represent null.
func reflectAccessor(index []int, desc Descriptor) FieldAccessor {
	return func(record interface{}) (interface{}, bool) {
		v := reflect.ValueOf(record)
		for v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return nil, false
			}
			v = v.Elem()
		}
		v = v.FieldByIndex(index)
		switch v.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
			if v.IsNil() {
				return nil, false
			}
			if v.Kind() == reflect.Ptr {
				v = v.Elem()
			}
		}
		return v.Interface(), true
	}
}
