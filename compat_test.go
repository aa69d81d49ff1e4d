package parquet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/segmentio-labs/parquetrec/format"
)

func TestNumericCompatWideningIsAlwaysAllowed(t *testing.T) {
	cases := []struct {
		file   format.PhysicalType
		target Kind
	}{
		{format.Int32, KindI32},
		{format.Int32, KindI64},
		{format.Int32, KindF32},
		{format.Int32, KindF64},
		{format.Int64, KindI64},
		{format.Int64, KindF32},
		{format.Int64, KindF64},
		{format.Float, KindF32},
		{format.Float, KindF64},
		{format.Double, KindF64},
	}
	for _, c := range cases {
		require.Equalf(t, compatAlways, numericCompat(c.file, c.target), "%s -> %s", c.file, c.target)
	}
}

func TestNumericCompatNarrowingNeedsOptIn(t *testing.T) {
	cases := []struct {
		file   format.PhysicalType
		target Kind
	}{
		{format.Int32, KindI8},
		{format.Int32, KindI16},
		{format.Int64, KindI8},
		{format.Int64, KindI16},
		{format.Int64, KindI32},
		{format.Double, KindF32},
	}
	for _, c := range cases {
		require.Equalf(t, compatStrict, numericCompat(c.file, c.target), "%s -> %s", c.file, c.target)
	}
}

func TestNumericCompatNeverCrossesBoolOrNarrowsFloatToInt(t *testing.T) {
	require.Equal(t, compatNever, numericCompat(format.Boolean, KindI32))
	require.Equal(t, compatNever, numericCompat(format.Float, KindI32))
	require.Equal(t, compatNever, numericCompat(format.Double, KindI64))
}

func TestLogicalBinaryCompatStringEnumSymmetry(t *testing.T) {
	stringFile := &format.LogicalAnnotation{Kind: format.StringLogical}
	enumFile := &format.LogicalAnnotation{Kind: format.EnumLogical}

	require.Equal(t, compatAlways, logicalBinaryCompat(stringFile, LogicalString))
	require.Equal(t, compatAlways, logicalBinaryCompat(stringFile, LogicalEnum))
	require.Equal(t, compatAlways, logicalBinaryCompat(enumFile, LogicalString))
	require.Equal(t, compatAlways, logicalBinaryCompat(enumFile, LogicalEnum))
}

func TestLogicalBinaryCompatUUIDWidensToStringButNotEnum(t *testing.T) {
	uuidFile := &format.LogicalAnnotation{Kind: format.UUIDLogical}
	require.Equal(t, compatAlways, logicalBinaryCompat(uuidFile, LogicalUUID))
	require.Equal(t, compatAlways, logicalBinaryCompat(uuidFile, LogicalString))
	require.Equal(t, compatNever, logicalBinaryCompat(uuidFile, LogicalEnum))

	stringFile := &format.LogicalAnnotation{Kind: format.StringLogical}
	require.Equal(t, compatNever, logicalBinaryCompat(stringFile, LogicalUUID))
}

func TestLogicalBinaryCompatNilAnnotationNeverMatches(t *testing.T) {
	require.Equal(t, compatNever, logicalBinaryCompat(nil, LogicalString))
}

// TestProjectSchemaFailOnNarrowingRejectsStrictCompat exercises the
// ReaderPolicy flag that turns a compatStrict narrowing decision into a
// projection error (spec §4.2, §4.3).
func TestProjectSchemaFailOnNarrowingRejectsStrictCompat(t *testing.T) {
	type wide struct{ N int64 }
	type narrow struct{ N int32 }

	wideRec, err := RecordOf(wide{}).Field("N", NewPrimitive(KindI64, false)).Build()
	require.NoError(t, err)
	schema, err := CompileSchema("w", wideRec, FieldName)
	require.NoError(t, err)

	narrowRec, err := RecordOf(narrow{}).Field("N", NewPrimitive(KindI32, false)).Build()
	require.NoError(t, err)

	_, err = ProjectSchema(schema, narrowRec, NewReaderPolicy(FailOnNarrowing(true)))
	requireErrorKind(t, err, NarrowingDisallowed)

	proj, err := ProjectSchema(schema, narrowRec, NewReaderPolicy(FailOnNarrowing(false)))
	require.NoError(t, err)
	require.NotNil(t, proj)
}

// TestProjectSchemaFailOnMissingColumn exercises the ReaderPolicy flag
// governing a target field with no matching file column (spec §4.2.2.a).
func TestProjectSchemaFailOnMissingColumn(t *testing.T) {
	type onlyA struct{ A string }
	type aAndB struct {
		A string
		B string
	}

	fileRec, err := RecordOf(onlyA{}).Field("A", NewLogicalBinary(LogicalString, false)).Build()
	require.NoError(t, err)
	schema, err := CompileSchema("r", fileRec, FieldName)
	require.NoError(t, err)

	targetRec, err := RecordOf(aAndB{}).
		Field("A", NewLogicalBinary(LogicalString, false)).
		Field("B", NewLogicalBinary(LogicalString, false)).
		Build()
	require.NoError(t, err)

	_, err = ProjectSchema(schema, targetRec, NewReaderPolicy(FailOnMissingColumn(true)))
	requireErrorKind(t, err, MissingColumn)

	proj, err := ProjectSchema(schema, targetRec, NewReaderPolicy(FailOnMissingColumn(false)))
	require.NoError(t, err)
	require.True(t, proj.Plan[1].Missing, "B has no matching column and should be marked Missing")
}
