package parquet

// Value is the per-column (repetition level, definition level, value?)
// triple the Record Assembler produces and the Record Materializer
// consumes (spec §3.3). It plays the same role as the teacher's Value type
// (value.go) but stores a single boxed payload instead of a union of raw
// machine words, since this repo's descriptors are few enough in number
// (§3.1's seven variants) that specialized in-memory packing isn't worth
// the complexity the teacher pays for it at the page-codec layer (out of
// scope here, see spec §1).
type Value struct {
	repetitionLevel int
	definitionLevel int
	columnIndex     int
	data            interface{} // nil when absent (definitionLevel < max)
}

// NewValue constructs a present value at the given levels.
func NewValue(columnIndex, repetitionLevel, definitionLevel int, data interface{}) Value {
	return Value{columnIndex: columnIndex, repetitionLevel: repetitionLevel, definitionLevel: definitionLevel, data: data}
}

// NullValue constructs an absent value at the given levels (spec §3.3: "a
// value is absent when def-level < max-def-level").
func NullValue(columnIndex, repetitionLevel, definitionLevel int) Value {
	return Value{columnIndex: columnIndex, repetitionLevel: repetitionLevel, definitionLevel: definitionLevel}
}

func (v Value) ColumnIndex() int     { return v.columnIndex }
func (v Value) RepetitionLevel() int { return v.repetitionLevel }
func (v Value) DefinitionLevel() int { return v.definitionLevel }
func (v Value) IsNull() bool         { return v.data == nil }
func (v Value) Data() interface{}    { return v.data }

// Row is a flat, column-ordered stream of Values representing one record
// (spec §3.3). It is produced by the Record Assembler and consumed by the
// Record Materializer, the same role the teacher's Row type (row.go,
// row_buffer.go) plays between traverse.go and struct_builder.go.
type Row []Value
