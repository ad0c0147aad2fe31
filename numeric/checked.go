package numeric

import (
	"math"
	"math/big"

	"github.com/kbukum/typedflow/errors"
)

// ErrUndefined matches results that are not a number (NaN).
// It shares the INVALID_INPUT code, so errors.Is matches any invalid-input error.
var ErrUndefined = &errors.AppError{Code: errors.ErrCodeInvalidInput}

// IsFloat reports whether T is a floating-point type.
func IsFloat[T Number]() bool {
	one, two := T(1), T(2)
	return one/two != 0
}

// IsNaN reports whether v is a floating-point NaN. Always false for integers.
func IsNaN[T Number](v T) bool {
	return IsFloat[T]() && math.IsNaN(float64(v))
}

// Mul returns a*b. Integer results that do not fit T fail with an OVERFLOW
// error; float results fail with OVERFLOW when infinite and INVALID_INPUT
// when NaN. Nothing is wrapped or saturated.
func Mul[T Number](a, b T) (T, error) {
	r := a * b
	if IsFloat[T]() {
		return checkFloat(r, "multiplication")
	}
	var zero T
	if a == zero || b == zero {
		return zero, nil
	}
	// Division detects wrap-around; the sign check catches MinInt * -1,
	// where the quotient wraps back to b.
	if r/b != a || (a < zero) != (b < zero) != (r < zero) {
		return zero, errors.Overflow("multiplication")
	}
	return r, nil
}

// Add returns a+b with the same overflow rules as Mul.
func Add[T Number](a, b T) (T, error) {
	r := a + b
	if IsFloat[T]() {
		return checkFloat(r, "addition")
	}
	var zero T
	if (b > zero && r < a) || (b < zero && r > a) {
		return zero, errors.Overflow("addition")
	}
	return r, nil
}

// sumPrec holds any sum of float64 values exactly.
const sumPrec = 2200

// Sum adds values exactly and checks only the total, so the result does not
// depend on the order of values. Integer totals that do not fit T fail with
// OVERFLOW; float totals fail with OVERFLOW when infinite and INVALID_INPUT
// when any value is NaN.
func Sum[T Number](values ...T) (T, error) {
	if IsFloat[T]() {
		return sumFloat(values)
	}
	return sumInteger(values)
}

func sumInteger[T Number](values []T) (T, error) {
	var zero T
	signed := zero-1 < zero
	total := new(big.Int)
	var v big.Int
	for _, x := range values {
		if signed {
			v.SetInt64(int64(x))
		} else {
			v.SetUint64(uint64(x))
		}
		total.Add(total, &v)
	}
	switch {
	case signed && total.IsInt64():
		if r := T(total.Int64()); int64(r) == total.Int64() {
			return r, nil
		}
	case !signed && total.IsUint64():
		if r := T(total.Uint64()); uint64(r) == total.Uint64() {
			return r, nil
		}
	}
	return zero, errors.Overflow("addition")
}

func sumFloat[T Number](values []T) (T, error) {
	var zero T
	total := new(big.Float).SetPrec(sumPrec)
	var v big.Float
	for _, x := range values {
		f := float64(x)
		if math.IsNaN(f) {
			return zero, errors.InvalidInput("value", "addition result is not a number")
		}
		if math.IsInf(f, 0) {
			return zero, errors.Overflow("addition")
		}
		total.Add(total, v.SetFloat64(f))
	}
	f, _ := total.Float64()
	return checkFloat(T(f), "addition")
}

func checkFloat[T Number](r T, op string) (T, error) {
	var zero T
	f := float64(r)
	if math.IsNaN(f) {
		return zero, errors.InvalidInput("value", op+" result is not a number")
	}
	if math.IsInf(f, 0) {
		return zero, errors.Overflow(op)
	}
	return r, nil
}
