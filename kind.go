package parquet

// Kind enumerates the primitive physical kinds of the Type Descriptor
// (spec §3.1). It intentionally does not alias format.PhysicalType: several
// Kind values (I8, I16) share one physical representation (INT32) and the
// distinction only matters for numeric narrowing (spec §4.3).
type Kind int8

const (
	KindBool Kind = iota
	KindI8
	KindI16
	KindI32
	KindI64
	KindF32
	KindF64
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindI8:
		return "i8"
	case KindI16:
		return "i16"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	default:
		return "unknown"
	}
}

// IsInteger reports whether k is one of the signed integer widths.
func (k Kind) IsInteger() bool {
	switch k {
	case KindI8, KindI16, KindI32, KindI64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether k is one of the floating point widths.
func (k Kind) IsFloat() bool {
	return k == KindF32 || k == KindF64
}

// width returns the bit width used to order Kind values by narrowing
// (spec §8 property 4: numeric lattice is a strict partial order on width).
func (k Kind) width() int {
	switch k {
	case KindI8:
		return 8
	case KindI16:
		return 16
	case KindI32, KindF32:
		return 32
	case KindI64, KindF64:
		return 64
	default:
		return 0
	}
}

// LogicalBinaryKind enumerates the logical binary variants of §3.1.
type LogicalBinaryKind int8

const (
	LogicalString LogicalBinaryKind = iota
	LogicalEnum
	LogicalUUID
	LogicalJSON
	LogicalBSON
	LogicalRawBinary
)

func (k LogicalBinaryKind) String() string {
	switch k {
	case LogicalString:
		return "string"
	case LogicalEnum:
		return "enum"
	case LogicalUUID:
		return "uuid"
	case LogicalJSON:
		return "json"
	case LogicalBSON:
		return "bson"
	case LogicalRawBinary:
		return "raw-binary"
	default:
		return "unknown"
	}
}

// TimeUnit mirrors format.TimeUnit at the descriptor level.
type TimeUnit int8

const (
	Millis TimeUnit = iota
	Micros
	Nanos
)

// TemporalKind enumerates the temporal variants of §3.1.
type TemporalKind int8

const (
	TemporalDate TemporalKind = iota
	TemporalTime
	TemporalLocalDateTime
	TemporalInstant
)

func (k TemporalKind) String() string {
	switch k {
	case TemporalDate:
		return "date"
	case TemporalTime:
		return "time"
	case TemporalLocalDateTime:
		return "local-datetime"
	case TemporalInstant:
		return "instant"
	default:
		return "unknown"
	}
}

// Rounding enumerates the decimal rescale rounding modes (spec §3.1, §4.5).
type Rounding int8

const (
	RoundUnnecessary Rounding = iota
	RoundHalfUp
	RoundHalfEven
	RoundDown
	RoundUp
	RoundCeiling
	RoundFloor
)

// ListEncoding selects the wire shape for List descriptors (spec §3.2).
type ListEncoding int8

const (
	ThreeLevel ListEncoding = iota
	TwoLevel
	OneLevel
)

func (e ListEncoding) String() string {
	switch e {
	case ThreeLevel:
		return "three-level"
	case TwoLevel:
		return "two-level"
	case OneLevel:
		return "one-level"
	default:
		return "unknown"
	}
}

// ListContainer selects the concrete Go container a List materializes into
// (spec §3.1, §4.4).
type ListContainer int8

const (
	OrderedSequence ListContainer = iota
	UnorderedSet
	SpecificListType
)

// MapContainer selects the concrete Go container a Map materializes into
// (spec §3.1, §4.4). The MapHash/MapLinkedHash/... names avoid colliding
// with the concrete container types of the same concept (LinkedHashMap,
// TreeMap, ConcurrentMap in container.go).
type MapContainer int8

const (
	MapHash MapContainer = iota
	MapLinkedHash
	MapTree
	MapConcurrent
	MapSpecific
)
