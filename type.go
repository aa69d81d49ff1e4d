package parquet

import "github.com/segmentio-labs/parquetrec/format"

// physicalTypeOf returns the Parquet physical storage type a primitive Kind
// is compiled to (spec §4.1 step 1): bool->BOOLEAN; i8/i16/i32->INT32;
// i64->INT64; f32->FLOAT; f64->DOUBLE.
func physicalTypeOf(k Kind) format.PhysicalType {
	switch k {
	case KindBool:
		return format.Boolean
	case KindI8, KindI16, KindI32:
		return format.Int32
	case KindI64:
		return format.Int64
	case KindF32:
		return format.Float
	case KindF64:
		return format.Double
	default:
		panic("physicalTypeOf: unhandled Kind " + k.String())
	}
}

// physicalTypeOfLogical returns the physical storage type backing a logical
// binary kind: BYTE_ARRAY for everything except UUID, which is stored as a
// FIXED_LEN_BYTE_ARRAY(16) (spec §4.1).
func physicalTypeOfLogical(k LogicalBinaryKind) (format.PhysicalType, int32) {
	if k == LogicalUUID {
		return format.FixedLenByteArray, 16
	}
	return format.ByteArray, 0
}

func logicalAnnotationOfBinary(k LogicalBinaryKind) *format.LogicalAnnotation {
	switch k {
	case LogicalString:
		return &format.LogicalAnnotation{Kind: format.StringLogical}
	case LogicalEnum:
		return &format.LogicalAnnotation{Kind: format.EnumLogical}
	case LogicalUUID:
		return &format.LogicalAnnotation{Kind: format.UUIDLogical}
	case LogicalJSON:
		return &format.LogicalAnnotation{Kind: format.JSONLogical}
	case LogicalBSON:
		return &format.LogicalAnnotation{Kind: format.BSONLogical}
	default: // LogicalRawBinary
		return nil
	}
}

func timeUnitOf(u TimeUnit) format.TimeUnit {
	switch u {
	case Micros:
		return format.Micros
	case Nanos:
		return format.Nanos
	default:
		return format.Millis
	}
}

// physicalTypeOfDecimal picks the smallest physical representation that can
// hold the given precision (spec §4.1): INT32 if p<=9, INT64 if p<=18,
// otherwise a fixed-length byte array sized to hold the unscaled value.
func physicalTypeOfDecimal(precision int32) (format.PhysicalType, int32) {
	switch {
	case precision <= 9:
		return format.Int32, 0
	case precision <= 18:
		return format.Int64, 0
	default:
		return format.FixedLenByteArray, decimalByteWidth(precision)
	}
}

// decimalByteWidth returns a number of bytes sufficient to represent an
// unscaled decimal value of the given precision in two's-complement. It is
// an upper bound, not always the minimum (precision 38 gives 20 bytes).
func decimalByteWidth(precision int32) int32 {
	// ceil(precision * log2(10) / 8), with log2(10) approximated as a
	// lookup-free bound: 4 bits per decimal digit is always sufficient.
	bits := precision*4 + 4
	width := (bits + 7) / 8
	if width < 1 {
		width = 1
	}
	return width
}
