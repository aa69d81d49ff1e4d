package parquet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/segmentio-labs/parquetrec/format"
)

type schemaTestPayment struct {
	ID     string
	Amount float64
	Tags   []string
}

func buildPaymentRecord(t *testing.T) *Record {
	t.Helper()
	tags, err := NewList(NewLogicalBinary(LogicalString, false), ThreeLevel, OrderedSequence, true)
	require.NoError(t, err)

	rec, err := RecordOf(schemaTestPayment{}).
		Field("ID", NewLogicalBinary(LogicalString, false), FieldID(1), NotNull()).
		Field("Amount", NewPrimitive(KindF64, true), FieldID(2)).
		Field("Tags", tags, FieldID(3)).
		Build()
	require.NoError(t, err)
	return rec
}

func TestCompileSchemaColumnOrderAndShape(t *testing.T) {
	rec := buildPaymentRecord(t)
	schema, err := CompileSchema("payment", rec, FieldName)
	require.NoError(t, err)

	require.Equal(t, "payment", schema.Name)
	require.Len(t, schema.Fields, 3)

	id := schema.Fields[0]
	require.Equal(t, "ID", id.Name)
	require.Equal(t, format.Required, id.Repetition)
	require.NotNil(t, id.Physical)
	require.Equal(t, format.ByteArray, *id.Physical)
	require.NotNil(t, id.FieldID)
	require.Equal(t, int32(1), *id.FieldID)

	amount := schema.Fields[1]
	require.Equal(t, "Amount", amount.Name)
	require.Equal(t, format.Optional, amount.Repetition, "no NotNull() option and nullable primitive -> OPTIONAL")
	require.Equal(t, format.Double, *amount.Physical)

	tags := schema.Fields[2]
	require.Equal(t, "Tags", tags.Name)
	require.True(t, tags.IsList())
	require.Len(t, tags.Fields, 1)
	require.Equal(t, "list", tags.Fields[0].Name)
	require.Equal(t, format.Repeated, tags.Fields[0].Repetition)
	require.Len(t, tags.Fields[0].Fields, 1)
	element := tags.Fields[0].Fields[0]
	require.Equal(t, "element", element.Name)
	require.Equal(t, format.Required, element.Repetition)
	require.Equal(t, format.ByteArray, *element.Physical)
}

func TestCompileSchemaSnakeCaseNaming(t *testing.T) {
	rec := buildPaymentRecord(t)
	schema, err := CompileSchema("payment", rec, SnakeCase)
	require.NoError(t, err)
	require.Equal(t, "id", schema.Fields[0].Name)
	require.Equal(t, "amount", schema.Fields[1].Name)
	require.Equal(t, "tags", schema.Fields[2].Name)
}

func TestDumpRendersLeafAndGroupRows(t *testing.T) {
	rec := buildPaymentRecord(t)
	schema, err := CompileSchema("payment", rec, FieldName)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, schema))
	out := buf.String()

	require.Contains(t, out, "ID")
	require.Contains(t, out, "REQUIRED")
	require.Contains(t, out, "BYTE_ARRAY")
	require.Contains(t, out, "Amount")
	require.Contains(t, out, "DOUBLE")
	require.Contains(t, out, "OPTIONAL")
	require.Contains(t, out, "Tags")
	require.Contains(t, out, "list")
}

// TestSchemaCompileProjectIdempotent exercises spec §8's idempotence
// property: projecting a compiled schema back against the very record it
// was compiled from must reproduce a schema dump identical to the
// original (no column dropped, reordered, or narrowed away).
func TestSchemaCompileProjectIdempotent(t *testing.T) {
	rec := buildPaymentRecord(t)
	schema, err := CompileSchema("payment", rec, FieldName)
	require.NoError(t, err)

	proj, err := ProjectSchema(schema, rec, DefaultReaderPolicy())
	require.NoError(t, err)

	var want, got bytes.Buffer
	require.NoError(t, Dump(&want, schema))
	require.NoError(t, Dump(&got, proj.Schema))
	require.Equal(t, want.String(), got.String())
}
