package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxDigits is the display width: the maximum number of characters an
// entered operand may hold, and the width a formatted result aims for.
const MaxDigits = 12

// exponentialThreshold is the magnitude above which results that do not
// fit the display switch to exponential notation.
const exponentialThreshold = 999_999_999_999

// exponentialDigits is the number of fractional mantissa digits used for
// results above exponentialThreshold.
const exponentialDigits = 6

// Format renders a finite result for the display.
//
// The shortest round-trip representation is used when it fits in MaxDigits
// characters. Otherwise values above 999,999,999,999 in magnitude render as
// exponential notation with six fractional digits (1.234567e+15) and the
// rest round to MaxDigits significant digits, without trailing zeros.
func Format(x float64) string {
	if x == 0 {
		// Also folds negative zero.
		return "0"
	}

	s := shortest(x)
	if len(s) <= MaxDigits {
		return s
	}
	if math.Abs(x) > exponentialThreshold {
		return strconv.FormatFloat(x, 'e', exponentialDigits, 64)
	}
	return significant(x, MaxDigits)
}

// shortest returns the minimal decimal representation of x: plain notation
// for magnitudes in [1e-6, 1e21) and exponential notation (1e-7, 1.5e+21)
// outside that range.
func shortest(x float64) string {
	abs := math.Abs(x)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	mantissa, exp := splitExponent(strconv.FormatFloat(x, 'e', -1, 64))
	return mantissa + exponentSuffix(exp)
}

// significant rounds x to digits significant digits. Plain notation is used
// unless the decimal exponent is below -6 or at least digits.
func significant(x float64, digits int) string {
	mantissa, exp := splitExponent(strconv.FormatFloat(x, 'e', digits-1, 64))
	if exp < -6 || exp >= digits {
		return trimFraction(mantissa) + exponentSuffix(exp)
	}
	return trimFraction(strconv.FormatFloat(x, 'f', digits-1-exp, 64))
}

// splitExponent splits strconv 'e' output into mantissa and exponent.
func splitExponent(s string) (string, int) {
	i := strings.IndexByte(s, 'e')
	if i < 0 {
		return s, 0
	}
	exp, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return s, 0
	}
	return s[:i], exp
}

func exponentSuffix(exp int) string {
	return fmt.Sprintf("e%+d", exp)
}

// trimFraction drops trailing fractional zeros and a dangling point.
func trimFraction(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
