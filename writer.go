package parquet

import (
	"context"

	"github.com/segmentio-labs/parquetrec/format"
)

// Writer is the top-level write-path entry point: it compiles a target
// Record once (spec §4.1) and assembles records against it (spec §4.5),
// flushing each to a PrimitiveWriter (spec §6.1).
//
// Grounded on the teacher's Writer (writer.go): a single long-lived value
// wrapping a compiled schema that Write is called against repeatedly,
// generalized here to this package's runtime (rather than reflect.Type-
// derived) Record descriptor.
type Writer struct {
	rec    *Record
	schema *format.MessageType
	sink   PrimitiveWriter
}

// NewWriter compiles rec's schema under the given name/config and returns
// a Writer ready to assemble records onto sink.
func NewWriter(sink PrimitiveWriter, name string, rec *Record, cfg WriterConfig) (*Writer, error) {
	schema, err := CompileSchema(name, rec, cfg.Naming)
	if err != nil {
		return nil, err
	}
	return &Writer{rec: rec, schema: schema, sink: sink}, nil
}

// Schema returns the compiled file schema, e.g. for handing to a
// corresponding Reader via ProjectSchema.
func (w *Writer) Schema() *format.MessageType { return w.schema }

// Write assembles one record instance and flushes it to the underlying
// PrimitiveWriter.
func (w *Writer) Write(ctx context.Context, instance interface{}) error {
	row, err := AssembleRecord(w.rec, instance)
	if err != nil {
		return err
	}
	return WriteRow(ctx, w.sink, row)
}

// Close closes the underlying PrimitiveWriter.
func (w *Writer) Close() error { return w.sink.Close() }
