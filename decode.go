package parquet

import (
	"fmt"
	"time"

	"github.com/segmentio-labs/parquetrec/format"
)

// decodePrimitive applies the read-path numeric coercion of spec §4.4
// ("Coercion on read"): integer narrowing wraps under two's-complement
// truncation, float narrowing rounds to nearest (the conversion Go's
// built-in numeric conversions already perform).
func decodePrimitive(target Kind, raw interface{}) interface{} {
	switch target {
	case KindBool:
		return raw.(bool)
	case KindI8:
		return int8(toInt64(raw))
	case KindI16:
		return int16(toInt64(raw))
	case KindI32:
		return int32(toInt64(raw))
	case KindI64:
		return toInt64(raw)
	case KindF32:
		return float32(toFloat64(raw))
	case KindF64:
		return toFloat64(raw)
	default:
		return raw
	}
}

func toInt64(raw interface{}) int64 {
	switch v := raw.(type) {
	case int32:
		return int64(v)
	case int64:
		return v
	case float32:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func toFloat64(raw interface{}) float64 {
	switch v := raw.(type) {
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case float32:
		return float64(v)
	case float64:
		return v
	default:
		return 0
	}
}

// decodeLogicalBinary converts a raw column value into the target's Go
// representation (spec §4.3): a file UUID column may be read as a uuid.UUID
// (target uuid) or as its textual form (target string/enum); string/enum
// columns decode to their Go string form. Reading into a target enum with a
// declared symbol set errors on a name outside that set (spec §8 property
// 5: "error on unknown name").
func decodeLogicalBinary(target *LogicalBinary, fileLogical format.LogicalKind, raw []byte) (interface{}, error) {
	if target.KindOf == LogicalUUID {
		return decodeUUIDValue(raw)
	}
	if fileLogical == format.UUIDLogical {
		return decodeUUIDText(raw)
	}
	s := string(raw)
	if target.KindOf == LogicalEnum && len(target.Symbols) > 0 && !containsString(target.Symbols, s) {
		return nil, &Error{Kind: UnsupportedTarget, Reason: fmt.Sprintf("enum value %q not in declared symbol set", s)}
	}
	return s, nil
}

// decodeTemporal converts a physical integer column value into a time.Time
// (spec §3.1, §4.4).
func decodeTemporal(t *Temporal, unit format.TimeUnit, raw interface{}) time.Time {
	switch t.KindOf {
	case TemporalDate:
		days := toInt64(raw)
		return time.Unix(days*86400, 0).UTC()

	case TemporalTime:
		d := durationOf(unit, toInt64(raw))
		epoch := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
		return epoch.Add(d)

	default: // TemporalLocalDateTime, TemporalInstant
		n := toInt64(raw)
		switch unit {
		case format.Millis:
			return time.UnixMilli(n).UTC()
		case format.Micros:
			return time.UnixMicro(n).UTC()
		default:
			return time.Unix(0, n).UTC()
		}
	}
}

func durationOf(unit format.TimeUnit, n int64) time.Duration {
	switch unit {
	case format.Millis:
		return time.Duration(n) * time.Millisecond
	case format.Micros:
		return time.Duration(n) * time.Microsecond
	default:
		return time.Duration(n) * time.Nanosecond
	}
}
