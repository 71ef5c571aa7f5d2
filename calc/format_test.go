package calc

import (
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"integer", 3, "3"},
		{"integer without trailing zeros", 5.0, "5"},
		{"negative", -123.456, "-123.456"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"short fraction", 0.25, "0.25"},
		{"twelve characters verbatim", 123456789012, "123456789012"},
		{"float noise rounded", 0.1 + 0.2, "0.3"},
		{"repeating fraction", 1.0 / 3, "0.333333333333"},
		{"rounding up", 2.0 / 3, "0.666666666667"},
		{"large integer exponential", 1234567000000000, "1.234567e+15"},
		{"just above threshold", 1234567890123, "1.234568e+12"},
		{"negative large exponential", -1234567000000000, "-1.234567e+15"},
		{"huge short form verbatim", 1e21, "1e+21"},
		{"tiny short form verbatim", 1e-7, "1e-7"},
		{"tiny long form", 1e-7 / 3, "3.33333333333e-8"},
		{"small fixed", 1.234567890123e-6, "0.00000123456789012"},
		{"long mixed", 1234.56789012345, "1234.56789012"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		exp := rng.Intn(20) - 8 // 1e-8 .. 1e11
		x := (rng.Float64()*2 - 1) * math.Pow(10, float64(exp))
		if math.Abs(x) > exponentialThreshold {
			continue
		}

		s := Format(x)
		got, err := strconv.ParseFloat(s, 64)
		require.NoError(t, err, "Format(%v) = %q", x, s)

		tolerance := math.Abs(x) * 1e-11
		assert.InDelta(t, x, got, tolerance, "Format(%v) = %q", x, s)
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		a, b string
		op   Operator
		want float64
	}{
		{"1", "2", OpAdd, 3},
		{"5", "3", OpSubtract, 2},
		{"4", "3", OpMultiply, 12},
		{"6", "2", OpDivide, 3},
		{"1.5", "2.5", OpAdd, 4},
		{"-2", "0.5", OpMultiply, -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+tt.op.String()+tt.b, func(t *testing.T) {
			got, err := Compute(tt.a, tt.b, tt.op)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompute_DivisionByZero(t *testing.T) {
	for _, zero := range []string{"0", "0.", "0.0", "-0"} {
		_, err := Compute("5", zero, OpDivide)
		require.Error(t, err, "divisor %q", zero)
		assert.ErrorIs(t, err, ErrDivisionByZero)

		var calcErr *Error
		require.ErrorAs(t, err, &calcErr)
		assert.Equal(t, FailureDivisionByZero, calcErr.Kind)
	}
}

func TestCompute_InvalidResult(t *testing.T) {
	_, err := Compute("1e308", "10", OpMultiply)
	assert.ErrorIs(t, err, ErrInvalidResult)
	assert.NotErrorIs(t, err, ErrDivisionByZero)
}

func TestCompute_NoOperator(t *testing.T) {
	_, err := Compute("1", "2", OpNone)
	assert.Error(t, err)
}

func TestCompute_BadOperand(t *testing.T) {
	_, err := Compute("Error", "2", OpAdd)
	assert.Error(t, err)
	assert.Equal(t, FailureInvalidResult, failureKind(err))
}

func TestFailureKind_String(t *testing.T) {
	assert.Equal(t, "none", FailureNone.String())
	assert.Equal(t, "division_by_zero", FailureDivisionByZero.String())
	assert.Equal(t, "invalid_result", FailureInvalidResult.String())
}
