// Package engine holds the calculator's input state machine. Every transition
// is a pure function from one State to the next; nothing here renders, logs
// or subscribes to input.
package engine

import "strings"

const initialDisplay = "0"

// State is the complete calculator state. It is a comparable value; all four
// logical fields change together on each transition.
type State struct {
	// Display is the text currently shown. Never empty.
	Display string

	// FirstOperand is meaningful only when HasFirstOperand is set.
	FirstOperand    float64
	HasFirstOperand bool

	// Operator is the pending operation, NoOperator when none is pending.
	Operator Operator

	// WaitingForSecondOperand makes the next digit replace Display.
	WaitingForSecondOperand bool
}

// Initial returns the state of a freshly mounted calculator.
func Initial() State {
	return State{Display: initialDisplay}
}

// InputDigit enters one digit. Runes outside 0-9 leave the state unchanged.
func (s State) InputDigit(d rune) State {
	if d < '0' || d > '9' {
		return s
	}

	digit := string(d)
	switch {
	case s.WaitingForSecondOperand:
		s.Display = digit
		s.WaitingForSecondOperand = false
	case s.Display == initialDisplay:
		s.Display = digit
	default:
		s.Display += digit
	}
	return s
}

// InputDecimal appends a decimal point unless the display already has one.
func (s State) InputDecimal() State {
	if s.WaitingForSecondOperand {
		s.Display = "0."
		s.WaitingForSecondOperand = false
		return s
	}

	if !strings.Contains(s.Display, ".") {
		s.Display += "."
	}
	return s
}

// Clear resets to the initial state.
func (s State) Clear() State {
	return Initial()
}

// PerformOperation selects the next operator. When an operator is already
// pending it is applied to the displayed value first, so operators chain
// left to right without precedence.
func (s State) PerformOperation(next Operator) State {
	input := ParseDisplay(s.Display)

	switch {
	case !s.HasFirstOperand:
		s.FirstOperand = input
		s.HasFirstOperand = true
	case s.Operator != NoOperator:
		result := Calculate(s.FirstOperand, input, s.Operator)
		s.Display = FormatNumber(result)
		s.FirstOperand = result
	}

	s.WaitingForSecondOperand = true
	s.Operator = next
	return s
}

// Equals applies the pending operator. It is a no-op when nothing is pending
// or when no second operand has been typed yet.
func (s State) Equals() State {
	if s.Operator == NoOperator || s.WaitingForSecondOperand {
		return s
	}

	result := Calculate(s.FirstOperand, ParseDisplay(s.Display), s.Operator)
	s.Display = FormatNumber(result)
	s.FirstOperand = result
	s.HasFirstOperand = true
	s.WaitingForSecondOperand = true
	s.Operator = NoOperator
	return s
}
