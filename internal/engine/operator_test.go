package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name   string
		a, b   float64
		op     Operator
		expect float64
	}{
		{name: "add", a: 2, b: 3, op: Add, expect: 5},
		{name: "subtract", a: 2, b: 3, op: Subtract, expect: -1},
		{name: "multiply", a: 2, b: 3, op: Multiply, expect: 6},
		{name: "divide", a: 3, b: 2, op: Divide, expect: 1.5},
		{name: "no operator returns second operand", a: 2, b: 3, op: NoOperator, expect: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Calculate(tt.a, tt.b, tt.op))
		})
	}
}

func TestCalculateDivideByZero(t *testing.T) {
	assert.True(t, math.IsInf(Calculate(1, 0, Divide), 1))
	assert.True(t, math.IsInf(Calculate(-1, 0, Divide), -1))
	assert.True(t, math.IsNaN(Calculate(0, 0, Divide)))
}

func TestParseOperator(t *testing.T) {
	tests := []struct {
		input  string
		expect Operator
	}{
		{input: "+", expect: Add},
		{input: "-", expect: Subtract},
		{input: "−", expect: Subtract},
		{input: "*", expect: Multiply},
		{input: "×", expect: Multiply},
		{input: "/", expect: Divide},
		{input: "÷", expect: Divide},
		{input: "divide", expect: Divide},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			op, err := ParseOperator(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, op)
		})
	}
}

func TestParseOperatorUnknown(t *testing.T) {
	for _, input := range []string{"", "%", "^", "plus"} {
		_, err := ParseOperator(input)
		assert.ErrorIs(t, err, ErrUnknownOperator, "input %q", input)
	}
}

func TestOperatorText(t *testing.T) {
	text, err := Multiply.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "×", string(text))

	var op Operator
	require.NoError(t, op.UnmarshalText([]byte("/")))
	assert.Equal(t, Divide, op)

	require.NoError(t, op.UnmarshalText(nil))
	assert.Equal(t, NoOperator, op)

	assert.ErrorIs(t, op.UnmarshalText([]byte("?")), ErrUnknownOperator)
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input  float64
		expect string
	}{
		{input: 0, expect: "0"},
		{input: math.Copysign(0, -1), expect: "0"},
		{input: 15, expect: "15"},
		{input: -2.5, expect: "-2.5"},
		{input: 1234567, expect: "1234567"},
		{input: 0.1 + 0.2, expect: "0.30000000000000004"},
		{input: 1e21, expect: "1e+21"},
		{input: 1e-7, expect: "1e-07"},
		{input: 0.000001, expect: "0.000001"},
		{input: math.Inf(1), expect: "+Inf"},
		{input: math.Inf(-1), expect: "-Inf"},
		{input: math.NaN(), expect: "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.expect, func(t *testing.T) {
			assert.Equal(t, tt.expect, FormatNumber(tt.input))
		})
	}
}

func TestParseDisplay(t *testing.T) {
	assert.Equal(t, 0.0, ParseDisplay("0"))
	assert.Equal(t, 12.0, ParseDisplay("12."))
	assert.Equal(t, 0.5, ParseDisplay("0.5"))
	assert.Equal(t, 1e21, ParseDisplay("1e+21"))
	assert.True(t, math.IsInf(ParseDisplay("+Inf"), 1))
	assert.True(t, math.IsInf(ParseDisplay("+Inf7"), 1))
	assert.Equal(t, 2.5, ParseDisplay("2.5x"))
	assert.True(t, math.IsNaN(ParseDisplay("NaN")))
	assert.True(t, math.IsNaN(ParseDisplay("abc")))
	assert.Equal(t, 1.2, ParseDisplay("1.2.3abc"))
	assert.Equal(t, 1.0, ParseDisplay("1e"))
	assert.Equal(t, 1.0, ParseDisplay("1e+"))
	assert.Equal(t, 0.5, ParseDisplay(".5"))
	assert.True(t, math.IsNaN(ParseDisplay("-")))
	assert.True(t, math.IsNaN(ParseDisplay("")))
	assert.True(t, math.IsInf(ParseDisplay("-Inf"), -1))
	assert.True(t, math.IsInf(ParseDisplay("1e99999"), 1))
}

func TestParseDisplayLongInput(t *testing.T) {
	garbage := strings.Repeat("x", 1<<20)
	assert.True(t, math.IsNaN(ParseDisplay(garbage)))
	assert.Equal(t, 7.0, ParseDisplay("7"+garbage))
}

func TestValidDisplay(t *testing.T) {
	for _, s := range []string{"0", "0.", "12.5", "007", "-3", "0.30000000000000004", "1e+21", "-1.5e-07", "+Inf", "-Inf", "NaN"} {
		assert.True(t, ValidDisplay(s), "display %q", s)
	}
	for _, s := range []string{"", ".", "1.2.3", "1.2.3abc", "abc", "Inf", "+5", "--1", "1e21", "1 ", "NaN5", "0x10", "1_000"} {
		assert.False(t, ValidDisplay(s), "display %q", s)
	}
}

func TestParseNumber(t *testing.T) {
	f, err := ParseNumber("-2.5")
	require.NoError(t, err)
	assert.Equal(t, -2.5, f)

	f, err = ParseNumber("+Inf")
	require.NoError(t, err)
	assert.True(t, math.IsInf(f, 1))

	for _, s := range []string{"", "abc", "12.", "1.2.3", "0x10", "Infinity"} {
		_, err := ParseNumber(s)
		assert.ErrorIs(t, err, ErrInvalidNumber, "number %q", s)
	}
}

func TestFormatNumberOutputIsParseable(t *testing.T) {
	for _, f := range []float64{0, -2.5, 1e21, 1e-7, 0.1 + 0.2, math.Inf(-1), math.NaN(), 123456789} {
		text := FormatNumber(f)
		assert.True(t, ValidDisplay(text), "display %q", text)
		_, err := ParseNumber(text)
		assert.NoError(t, err, "number %q", text)
	}
}

func TestActionKindRoundTrip(t *testing.T) {
	for kind, name := range actionNames {
		got, err := ParseActionKind(name)
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}

	_, err := ParseActionKind("memory")
	assert.ErrorIs(t, err, ErrUnknownAction)
}
