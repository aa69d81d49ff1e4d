package parquet

import (
	"context"
	"reflect"

	"github.com/segmentio-labs/parquetrec/format"
)

// Reader is the top-level read-path entry point: it projects a file
// schema against a target Record once (spec §4.2) and materializes
// records pulled off a PrimitiveReader (spec §4.4), sharing one
// Dictionary across every record in the current row group (spec §4.4
// "Dictionary pass-through").
//
// Grounded on the teacher's RowReader (reader.go): a long-lived value
// bound to one schema/plan that Read is called against repeatedly,
// generalized here to pull from this package's RowReader (io.go) instead
// of the teacher's page-level primitiveReader/groupReader tree.
type Reader struct {
	proj   *Projection
	goType reflect.Type
	rows   *RowReader
	dict   *Dictionary
	numCol int
}

// NewReader projects file against rec under policy and returns a Reader
// that pulls records off src.
func NewReader(src PrimitiveReader, file *format.MessageType, rec *Record, policy ReaderPolicy) (*Reader, error) {
	proj, err := ProjectSchema(file, rec, policy)
	if err != nil {
		return nil, err
	}
	numCol := len(leafColumnIndex(proj.Schema))
	return &Reader{
		proj:   proj,
		goType: rec.GoType,
		rows:   NewRowReader(src, numCol),
		dict:   NewDictionary(numCol),
		numCol: numCol,
	}, nil
}

// Projection returns the Schema Projector's output this Reader was built
// from.
func (r *Reader) Projection() *Projection { return r.proj }

// Read materializes the next record, or returns ok=false once the
// underlying PrimitiveReader is exhausted.
func (r *Reader) Read(ctx context.Context) (instance interface{}, ok bool, err error) {
	row, ok, err := r.rows.ReadRow(ctx)
	if err != nil || !ok {
		return nil, ok, err
	}
	rec, err := MaterializeRecordInRowGroup(r.proj, r.goType, row, r.dict)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// EndRowGroup clears the shared Dictionary's cached values, scoping
// dictionary sharing to "within one row-group" (spec §4.4) rather than
// carrying decoded values across a row-group boundary.
func (r *Reader) EndRowGroup() { r.dict.Reset() }
