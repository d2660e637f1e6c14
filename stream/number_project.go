package stream

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unsafe"

	"github.com/shopspring/decimal"
)

// Integer is the set of fixed-width integer types a Number projects into.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Float is the set of binary floating point types a Number projects into.
type Float interface {
	~float32 | ~float64
}

// Int64 projects the literal into an int64.
func (n Number) Int64() (int64, error) { return AsInt[int64](n) }

// Uint64 projects the literal into a uint64.
func (n Number) Uint64() (uint64, error) { return AsInt[uint64](n) }

// Float64 projects the literal into a float64.
func (n Number) Float64() (float64, error) { return AsFloat[float64](n) }

// AsInt projects the literal into the fixed-width integer type T. Literals with
// a fraction or exponent part are rejected even when their value is integral.
func AsInt[T Integer](n Number) (T, error) {
	var zero T
	if !n.IsInteger() {
		return zero, representabilityError("%s is not an integer literal", n)
	}
	bits := int(unsafe.Sizeof(zero)) * 8
	signed := ^zero < 0
	if signed {
		v, err := strconv.ParseInt(n.Integer, 10, bits)
		if err != nil {
			return zero, representabilityError("%s overflows int%d", n, bits)
		}
		return T(v), nil
	}
	digits := n.Integer
	if n.Negative() {
		digits = digits[1:]
		if strings.Trim(digits, "0") != "" {
			return zero, representabilityError("%s is negative for an unsigned type", n)
		}
	}
	v, err := strconv.ParseUint(digits, 10, bits)
	if err != nil {
		return zero, representabilityError("%s overflows uint%d", n, bits)
	}
	return T(v), nil
}

// AsFloat projects the literal into the floating point type T. Magnitudes that
// round to infinity are rejected; underflow rounds toward zero.
func AsFloat[T Float](n Number) (T, error) {
	var zero T
	bits := int(unsafe.Sizeof(zero)) * 8
	f, err := strconv.ParseFloat(n.String(), bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && !math.IsInf(f, 0) {
			return T(f), nil
		}
		return zero, representabilityError("%s overflows float%d", n, bits)
	}
	return T(f), nil
}

// BigInt projects the literal into an arbitrary precision integer.
func (n Number) BigInt() (*big.Int, error) {
	if !n.IsInteger() {
		return nil, representabilityError("%s is not an integer literal", n)
	}
	v, ok := new(big.Int).SetString(n.Integer, 10)
	if !ok {
		return nil, representabilityError("%s is not a valid integer", n)
	}
	return v, nil
}

// BigFloat projects the literal into a big.Float with the given precision in
// bits (0 selects 64).
func (n Number) BigFloat(prec uint) (*big.Float, error) {
	if prec == 0 {
		prec = 64
	}
	f, _, err := big.ParseFloat(n.String(), 10, prec, big.ToNearestEven)
	if err != nil {
		return nil, representabilityError("%s: %v", n, err)
	}
	return f, nil
}

// Decimal projects the literal into an exact arbitrary precision decimal.
func (n Number) Decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Decimal{}, representabilityError("%s: %v", n, err)
	}
	return d, nil
}
