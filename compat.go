package parquet

import "github.com/segmentio-labs/parquetrec/format"

// compatLevel classifies how a file column's physical/logical type may
// convert to a target Kind/logical kind (spec §4.3).
type compatLevel int8

const (
	compatNever compatLevel = iota
	compatStrict            // allowed only when fail_on_narrowing is false
	compatAlways
)

// numericCompat implements the §4.3 table for a file INT32/INT64/FLOAT/
// DOUBLE primitive converting to a target primitive Kind.
func numericCompat(file format.PhysicalType, target Kind) compatLevel {
	switch file {
	case format.Int32:
		switch target {
		case KindI8, KindI16:
			return compatStrict
		case KindI32, KindI64, KindF32, KindF64:
			return compatAlways
		}
	case format.Int64:
		switch target {
		case KindI8, KindI16, KindI32:
			return compatStrict
		case KindI64, KindF32, KindF64:
			return compatAlways
		}
	case format.Float:
		switch target {
		case KindF32, KindF64:
			return compatAlways
		}
	case format.Double:
		switch target {
		case KindF32:
			return compatStrict
		case KindF64:
			return compatAlways
		}
	}
	return compatNever
}

// logicalBinaryCompat implements the string/enum/uuid portion of the §4.3
// table. String<->Enum symmetry is unconditional (spec §4.3, §8 property
// 5); UUID round-trips with UUID and additionally widens to string (the
// textual 8-4-4-4-12 form, spec §4.3 "UUID read as string uses the textual
// form"), but never to enum.
func logicalBinaryCompat(file *format.LogicalAnnotation, target LogicalBinaryKind) compatLevel {
	if file == nil {
		return compatNever
	}
	switch file.Kind {
	case format.StringLogical, format.EnumLogical:
		if target == LogicalString || target == LogicalEnum {
			return compatAlways
		}
	case format.UUIDLogical:
		if target == LogicalUUID || target == LogicalString {
			return compatAlways
		}
	}
	return compatNever
}

func isBoolCompat(file format.PhysicalType) bool { return file == format.Boolean }
