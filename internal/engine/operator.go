package engine

import (
	"errors"
	"fmt"
)

// ErrUnknownOperator is returned by ParseOperator for symbols outside the keypad.
var ErrUnknownOperator = errors.New("unknown operator")

// Operator is a pending binary operation. The zero value means no operator.
type Operator int

const (
	NoOperator Operator = iota
	Add
	Subtract
	Multiply
	Divide
)

// Symbol returns the keypad glyph for the operator.
func (o Operator) Symbol() string {
	switch o {
	case Add:
		return "+"
	case Subtract:
		return "−"
	case Multiply:
		return "×"
	case Divide:
		return "÷"
	default:
		return ""
	}
}

// Name returns the lowercase operation name used in logs and metrics.
func (o Operator) Name() string {
	switch o {
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	case Multiply:
		return "multiply"
	case Divide:
		return "divide"
	default:
		return "none"
	}
}

func (o Operator) String() string {
	return o.Name()
}

var operatorSymbols = map[string]Operator{
	"+":        Add,
	"add":      Add,
	"-":        Subtract,
	"−":        Subtract,
	"subtract": Subtract,
	"*":        Multiply,
	"×":        Multiply,
	"multiply": Multiply,
	"/":        Divide,
	"÷":        Divide,
	"divide":   Divide,
}

// ParseOperator accepts keypad glyphs, their ASCII keyboard equivalents and
// operation names.
func ParseOperator(s string) (Operator, error) {
	op, ok := operatorSymbols[s]
	if !ok {
		return NoOperator, fmt.Errorf("%w: %q", ErrUnknownOperator, s)
	}
	return op, nil
}

func (o Operator) MarshalText() ([]byte, error) {
	return []byte(o.Symbol()), nil
}

func (o *Operator) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*o = NoOperator
		return nil
	}
	op, err := ParseOperator(string(text))
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// Calculate applies op to a and b. Division by zero follows IEEE 754 and
// yields ±Inf or NaN. NoOperator returns b.
func Calculate(a, b float64, op Operator) float64 {
	switch op {
	case Add:
		return a + b
	case Subtract:
		return a - b
	case Multiply:
		return a * b
	case Divide:
		return a / b
	case NoOperator:
		return b
	}
	return b
}
