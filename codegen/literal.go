package codegen

import (
	"math"
	"strconv"
	"strings"
)

// Bound is the largest magnitude written into generated text.
const Bound = 1e6

// Literal formats v as a float constructor, clamping it to [-Bound, Bound].
// NaN and negative zero are written as 0.
func Literal(v float64) string {
	return "float(" + number(Clamp(v)) + ")"
}

// Clamp limits v to [-Bound, Bound]. NaN is mapped to 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > Bound:
		return Bound
	case v < -Bound:
		return -Bound
	}

	return v
}

// number returns the shortest decimal that round-trips to the finite value
// v. Magnitudes in [1e-6, 1e21) use plain notation; others use an exponent
// without leading zeros, such as 1e-7.
func number(v float64) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}

	if a := math.Abs(v); a >= 1e-6 && a < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	s := strconv.FormatFloat(v, 'e', -1, 64)

	mant, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")

	return mant + "e" + sign + digits
}
