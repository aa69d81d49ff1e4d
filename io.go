package parquet

import "context"

// PrimitiveWriter is the external collaborator the Record Assembler hands
// its flattened (column, rep, def, value) stream to (spec §6.1). A page
// codec, row-group layout, and file footer sit behind this interface and
// are out of scope here — this repo only produces the stream.
//
// Grounded on the teacher's PageWriter (page.go): a per-column sink taking
// already-leveled values, generalized to one call per value instead of a
// batched slice so the assembler can stream directly off the descriptor
// walk.
type PrimitiveWriter interface {
	WriteNull(ctx context.Context, col, rep, def int) error
	WriteValue(ctx context.Context, col, rep, def int, value interface{}) error
	Close() error
}

// PrimitiveReader is the per-column iterator the Record Materializer pulls
// from (spec §6.1): each call advances one column's cursor by one
// (rep, def, value) triple, or reports exhaustion.
//
// Grounded on the teacher's PageReader/ValueReader (page.go,
// value_reader.go) pull-iterator shape, narrowed to a single-value
// Next instead of a buffer-filling ReadValues since a Row holds only one
// record's worth of values at a time (value.go).
type PrimitiveReader interface {
	Next(ctx context.Context, col int) (rep, def int, value interface{}, ok bool, err error)
}

// WriteRow flushes one assembled Row (spec §4.5's output) to a
// PrimitiveWriter, the handoff point between the Record Assembler and the
// external page/row-group layer (spec §6.1).
func WriteRow(ctx context.Context, w PrimitiveWriter, row Row) error {
	for _, v := range row {
		if v.IsNull() {
			if err := w.WriteNull(ctx, v.ColumnIndex(), v.RepetitionLevel(), v.DefinitionLevel()); err != nil {
				return err
			}
			continue
		}
		if err := w.WriteValue(ctx, v.ColumnIndex(), v.RepetitionLevel(), v.DefinitionLevel(), v.Data()); err != nil {
			return err
		}
	}
	return nil
}

// RowReader turns a column-major PrimitiveReader into a sequence of
// per-record Rows. A repeated column's values for one record run until
// the reader produces the next record's first entry (repetition level 0
// again); detecting that boundary needs one value of lookahead, which
// RowReader buffers per column across calls to ReadRow.
type RowReader struct {
	r        PrimitiveReader
	pending  []*Value
	exhausted []bool
}

// NewRowReader prepares a RowReader for a projection with the given
// number of leaf columns.
func NewRowReader(r PrimitiveReader, numColumns int) *RowReader {
	return &RowReader{r: r, pending: make([]*Value, numColumns), exhausted: make([]bool, numColumns)}
}

// ReadRow pulls exactly one record's worth of values out of the underlying
// PrimitiveReader (spec §6.1's "per-column iterator", driven until every
// leaf column has produced the next record's boundary or the reader is
// exhausted). It returns ok=false once every column is exhausted and there
// is nothing buffered.
func (rr *RowReader) ReadRow(ctx context.Context) (row Row, ok bool, err error) {
	any := false
	for col := range rr.pending {
		v, present, err := rr.fillColumn(ctx, col)
		if err != nil {
			return nil, false, err
		}
		if present {
			any = true
			row = append(row, v...)
		}
	}
	return row, any, nil
}

// fillColumn drains one column's worth of values for the current record,
// starting from any buffered lookahead value, and leaves the first value
// of the next record buffered in rr.pending for the following ReadRow
// call.
func (rr *RowReader) fillColumn(ctx context.Context, col int) ([]Value, bool, error) {
	var out []Value
	first := true

	next := func() (Value, bool, error) {
		if rr.pending[col] != nil {
			v := *rr.pending[col]
			rr.pending[col] = nil
			return v, true, nil
		}
		if rr.exhausted[col] {
			return Value{}, false, nil
		}
		rep, def, value, ok, err := rr.r.Next(ctx, col)
		if err != nil {
			return Value{}, false, err
		}
		if !ok {
			rr.exhausted[col] = true
			return Value{}, false, nil
		}
		if value == nil {
			return NullValue(col, rep, def), true, nil
		}
		return NewValue(col, rep, def, value), true, nil
	}

	for {
		v, present, err := next()
		if err != nil {
			return nil, false, err
		}
		if !present {
			break
		}
		if !first && v.RepetitionLevel() == 0 {
			rr.pending[col] = &v
			break
		}
		out = append(out, v)
		first = false
	}
	if len(out) == 0 {
		return nil, false, nil
	}
	return out, true, nil
}
