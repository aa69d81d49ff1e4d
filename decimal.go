package parquet

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/segmentio-labs/parquetrec/format"
)

// rescaleDecimal implements the write-side rescale of spec §4.5: "if
// value's scale > descriptor's scale, rescale using descriptor's rounding
// mode; UNNECESSARY raises InexactRescale." Scaling up (fewer decimal
// digits in the source than the target wants) is always exact.
func rescaleDecimal(d decimal.Decimal, targetScale int32, rounding Rounding) (decimal.Decimal, error) {
	currentScale := -d.Exponent()
	if currentScale == targetScale {
		return d, nil
	}
	if currentScale < targetScale {
		factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(targetScale-currentScale)), nil)
		return decimal.NewFromBigInt(new(big.Int).Mul(d.Coefficient(), factor), -targetScale), nil
	}

	diff := currentScale - targetScale
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(diff)), nil)
	coeff := d.Coefficient()

	quotient, remainder := new(big.Int).QuoRem(coeff, divisor, new(big.Int))
	if remainder.Sign() == 0 {
		return decimal.NewFromBigInt(quotient, -targetScale), nil
	}
	if rounding == RoundUnnecessary {
		return decimal.Decimal{}, &Error{Kind: InexactRescale, Reason: "rescale would discard non-zero digits under UNNECESSARY rounding"}
	}

	adjusted := applyRounding(quotient, remainder, divisor, rounding, coeff.Sign() < 0)
	return decimal.NewFromBigInt(adjusted, -targetScale), nil
}

// applyRounding nudges quotient by one unit (toward or away from zero)
// according to rounding, given the truncated remainder/divisor fraction
// and the sign of the original value.
func applyRounding(quotient, remainder, divisor *big.Int, rounding Rounding, negative bool) *big.Int {
	absRemainder := new(big.Int).Abs(remainder)
	twice := new(big.Int).Lsh(absRemainder, 1) // 2*|remainder|
	cmp := twice.Cmp(divisor)

	roundAwayFromZero := func() bool {
		switch rounding {
		case RoundHalfUp:
			return cmp >= 0
		case RoundHalfEven:
			if cmp > 0 {
				return true
			}
			if cmp < 0 {
				return false
			}
			return quotient.Bit(0) == 1 // tie: round to even
		case RoundUp:
			return true
		case RoundDown:
			return false
		case RoundCeiling:
			return !negative
		case RoundFloor:
			return negative
		default:
			return false
		}
	}()

	if !roundAwayFromZero {
		return quotient
	}
	one := big.NewInt(1)
	if negative {
		one = big.NewInt(-1)
	}
	return new(big.Int).Add(quotient, one)
}

// encodeDecimalUnscaled converts a rescaled decimal.Decimal's unscaled
// coefficient into the Go value matching the column's physical storage
// (spec §4.1: INT32/INT64/FIXED_LEN_BYTE_ARRAY depending on precision).
func encodeDecimalUnscaled(d decimal.Decimal, physical format.PhysicalType, length int32) interface{} {
	coeff := d.Coefficient()
	switch physical {
	case format.Int32:
		return int32(coeff.Int64())
	case format.Int64:
		return coeff.Int64()
	default: // FIXED_LEN_BYTE_ARRAY / BYTE_ARRAY, big-endian two's complement
		return bigIntToFixedBytes(coeff, length)
	}
}

// decimalFromRaw reconstructs a decimal.Decimal from the raw column value
// and the *file's* scale, without rescaling to the target's declared scale
// (spec §4.4: "do NOT rescale on read; rescaling happens only on write").
func decimalFromRaw(raw interface{}, physical format.PhysicalType, fileScale int32) decimal.Decimal {
	var coeff *big.Int
	switch v := raw.(type) {
	case int32:
		coeff = big.NewInt(int64(v))
	case int64:
		coeff = big.NewInt(v)
	case []byte:
		coeff = fixedBytesToBigInt(v)
	default:
		coeff = big.NewInt(0)
	}
	return decimal.NewFromBigInt(coeff, -fileScale)
}

func bigIntToFixedBytes(v *big.Int, length int32) []byte {
	buf := make([]byte, length)
	if v.Sign() >= 0 {
		b := v.Bytes()
		copy(buf[int(length)-len(b):], b)
		return buf
	}
	// two's complement negative encoding
	mod := new(big.Int).Lsh(big.NewInt(1), uint(length)*8)
	twos := new(big.Int).Add(mod, v)
	b := twos.Bytes()
	for i := range buf {
		buf[i] = 0xff
	}
	copy(buf[int(length)-len(b):], b)
	return buf
}

func fixedBytesToBigInt(b []byte) *big.Int {
	v := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(len(b))*8)
		v.Sub(v, mod)
	}
	return v
}
