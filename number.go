package bencode

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// wordBits is the width integers wrap at.
const wordBits = 64

// maxExponent bounds the exponent of a decimal number body.
const maxExponent = 1 << 20

// IntegerOf converts any Go integer to an Integer. Unsigned values above
// math.MaxInt64 fail with ErrNumberOverflow.
func IntegerOf[T constraints.Integer](v T) (Integer, error) {
	if v < 0 {
		return Integer(int64(v)), nil
	}
	if uint64(v) > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d", ErrNumberOverflow, v)
	}
	return Integer(int64(v)), nil
}

// IntegerFromFloat converts a floating point number to an Integer,
// truncating toward zero: 1.9 becomes 1 and -2.9 becomes -2. NaN, the
// infinities and anything outside the int64 range fail with
// ErrNumberOverflow rather than saturating.
func IntegerFromFloat[F constraints.Float](f F) (Integer, error) {
	t := math.Trunc(float64(f))
	if math.IsNaN(t) || t < math.MinInt64 || t >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %v", ErrNumberOverflow, f)
	}
	return Integer(int64(t)), nil
}

// parseNumber parses the body of an integer token. Canonical decimal input
// takes the strconv fast path; decimal fractions and exponents written by
// sloppy encoders ("1.5", "-2.9155148901435E+18") are accepted and
// truncated toward zero. Values outside the int64 range keep their low 64
// bits in two's complement, so "9223372036854775808" reads as
// math.MinInt64.
func parseNumber(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	n, err := parseDecimal(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedNumber, s, err)
	}
	return n, nil
}

var errNotDecimal = errors.New("not a decimal number")

// parseDecimal accepts [+-]digits[.digits][(e|E)[+-]digits], where at
// least one mantissa digit must be present on either side of the point.
func parseDecimal(s string) (int64, error) {
	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	var mantissa strings.Builder
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	mantissa.WriteString(s[start:i])

	frac := 0
	if i < len(s) && s[i] == '.' {
		i++
		start = i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		mantissa.WriteString(s[start:i])
		frac = i - start
	}
	if mantissa.Len() == 0 {
		return 0, errNotDecimal
	}

	exp := 0
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		e, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return 0, errNotDecimal
		}
		// larger magnitudes cannot change the outcome
		exp = max(min(e, maxExponent), -maxExponent)
		i = len(s)
	}
	if i != len(s) {
		return 0, errNotDecimal
	}

	digits := strings.TrimLeft(mantissa.String(), "0")
	if digits == "" {
		return 0, nil
	}

	// value = digits * 10^scale, kept modulo 2^64
	scale := exp - frac
	m, _ := new(big.Int).SetString(digits, 10)
	switch {
	case scale >= wordBits:
		// 10^scale is a multiple of 2^64
		return 0, nil
	case scale > 0:
		m.Mul(m, pow10(scale))
	case scale < 0:
		if -scale >= len(digits) {
			return 0, nil
		}
		m.Quo(m, pow10(-scale))
	}

	low := new(big.Int).And(m, lowWordMask).Uint64()
	if neg {
		low = -low
	}
	return int64(low), nil
}

var lowWordMask = new(big.Int).SetUint64(math.MaxUint64)

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
