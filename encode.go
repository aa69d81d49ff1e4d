package parquet

import (
	"fmt"
	"reflect"
	"time"

	"github.com/shopspring/decimal"

	"github.com/segmentio/encoding/json"
)

// encodePrimitive converts a write-path value into the Go value matching a
// Primitive descriptor's physical representation (spec §4.1 step 1).
// Numeric values are accepted via reflection so any of the usual Go integer
// or float types can back a given Kind.
func encodePrimitive(k Kind, v interface{}) (interface{}, error) {
	rv := reflect.ValueOf(v)
	switch k {
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, typeErr(k, v)
		}
		return b, nil
	case KindI8, KindI16, KindI32:
		if !rv.CanInt() {
			return nil, typeErr(k, v)
		}
		return int32(rv.Int()), nil
	case KindI64:
		if !rv.CanInt() {
			return nil, typeErr(k, v)
		}
		return rv.Int(), nil
	case KindF32:
		switch {
		case rv.CanFloat():
			return float32(rv.Float()), nil
		case rv.CanInt():
			return float32(rv.Int()), nil
		default:
			return nil, typeErr(k, v)
		}
	case KindF64:
		switch {
		case rv.CanFloat():
			return rv.Float(), nil
		case rv.CanInt():
			return float64(rv.Int()), nil
		default:
			return nil, typeErr(k, v)
		}
	default:
		return nil, typeErr(k, v)
	}
}

func typeErr(k Kind, v interface{}) error {
	return &Error{Kind: UnsupportedTarget, Reason: fmt.Sprintf("value %#v not assignable to %s", v, k)}
}

// encodeLogicalBinary converts a write-path value into the raw bytes a
// logical binary column stores (spec §3.1, §4.1).
func encodeLogicalBinary(d *LogicalBinary, v interface{}) (interface{}, error) {
	switch d.KindOf {
	case LogicalString, LogicalEnum:
		s, ok := v.(string)
		if !ok {
			return nil, &Error{Kind: UnsupportedTarget, Reason: fmt.Sprintf("value %#v not assignable to %s", v, d.KindOf)}
		}
		if d.KindOf == LogicalEnum && len(d.Symbols) > 0 && !containsString(d.Symbols, s) {
			return nil, &Error{Kind: UnsupportedTarget, Reason: fmt.Sprintf("enum value %q not in declared symbol set", s)}
		}
		return []byte(s), nil

	case LogicalUUID:
		return encodeUUID(v)

	case LogicalJSON:
		return encodeJSON(v)

	default: // LogicalBSON, LogicalRawBinary
		b, ok := v.([]byte)
		if !ok {
			return nil, &Error{Kind: UnsupportedTarget, Reason: fmt.Sprintf("value %#v not assignable to %s", v, d.KindOf)}
		}
		return b, nil
	}
}

func containsString(set []string, s string) bool {
	for _, x := range set {
		if x == s {
			return true
		}
	}
	return false
}

// encodeJSON validates a write-path value is (or marshals to) well-formed
// JSON before storing it as raw bytes (spec §3.1 logical binary "json";
// SPEC_FULL §11 wires segmentio/encoding/json for this structural check).
func encodeJSON(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case []byte:
		if !json.Valid(x) {
			return nil, &Error{Kind: UnsupportedTarget, Reason: "value is not valid json"}
		}
		return x, nil
	case string:
		if !json.Valid([]byte(x)) {
			return nil, &Error{Kind: UnsupportedTarget, Reason: "value is not valid json"}
		}
		return []byte(x), nil
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return nil, &Error{Kind: UnsupportedTarget, Reason: "value cannot be marshaled to json: " + err.Error()}
		}
		return b, nil
	}
}

// encodeDecimalValue rescales a decimal.Decimal to the descriptor's declared
// scale (spec §4.5) and returns the unscaled value in the column's physical
// representation.
func encodeDecimalValue(d *Decimal, v interface{}) (interface{}, error) {
	var dec decimal.Decimal
	switch x := v.(type) {
	case decimal.Decimal:
		dec = x
	case *decimal.Decimal:
		if x == nil {
			return nil, &Error{Kind: UnsupportedTarget, Reason: "value not assignable to decimal"}
		}
		dec = *x
	default:
		return nil, &Error{Kind: UnsupportedTarget, Reason: "value not assignable to decimal"}
	}

	rescaled, err := rescaleDecimal(dec, d.Scale, d.Rounding)
	if err != nil {
		return nil, err
	}
	physical, length := physicalTypeOfDecimal(d.Precision)
	return encodeDecimalUnscaled(rescaled, physical, length), nil
}

// encodeTemporal converts a time.Time into the physical integer a Temporal
// column stores (spec §3.1, §4.1).
func encodeTemporal(t *Temporal, v interface{}) (interface{}, error) {
	tm, ok := v.(time.Time)
	if !ok {
		return nil, &Error{Kind: UnsupportedTarget, Reason: "value not assignable to temporal"}
	}
	switch t.KindOf {
	case TemporalDate:
		midnight := time.Date(tm.Year(), tm.Month(), tm.Day(), 0, 0, 0, 0, time.UTC)
		return int32(midnight.Unix() / 86400), nil

	case TemporalTime:
		midnight := time.Date(tm.Year(), tm.Month(), tm.Day(), 0, 0, 0, 0, tm.Location())
		d := tm.Sub(midnight)
		switch t.Unit {
		case Millis:
			return int32(d.Milliseconds()), nil
		case Micros:
			return d.Microseconds(), nil
		default:
			return d.Nanoseconds(), nil
		}

	default: // TemporalLocalDateTime, TemporalInstant
		switch t.Unit {
		case Millis:
			return tm.UnixMilli(), nil
		case Micros:
			return tm.UnixMicro(), nil
		default:
			return tm.UnixNano(), nil
		}
	}
}
