package engine

import (
	"errors"
	"fmt"
)

// ErrUnknownAction is returned by ParseActionKind.
var ErrUnknownAction = errors.New("unknown action")

// ActionKind identifies one of the five transitions.
type ActionKind int

const (
	ActionDigit ActionKind = iota + 1
	ActionDecimal
	ActionOperator
	ActionEquals
	ActionClear
)

var actionNames = map[ActionKind]string{
	ActionDigit:    "digit",
	ActionDecimal:  "decimal",
	ActionOperator: "operator",
	ActionEquals:   "equals",
	ActionClear:    "clear",
}

func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// ParseActionKind maps a kind name back to its ActionKind.
func ParseActionKind(s string) (ActionKind, error) {
	for kind, name := range actionNames {
		if name == s {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Action is one user intent. Digit is set for ActionDigit and Operator for
// ActionOperator; other kinds carry no argument.
type Action struct {
	Kind     ActionKind
	Digit    rune
	Operator Operator
}

func DigitAction(d rune) Action         { return Action{Kind: ActionDigit, Digit: d} }
func DecimalAction() Action             { return Action{Kind: ActionDecimal} }
func OperatorAction(op Operator) Action { return Action{Kind: ActionOperator, Operator: op} }
func EqualsAction() Action              { return Action{Kind: ActionEquals} }
func ClearAction() Action               { return Action{Kind: ActionClear} }

func (a Action) String() string {
	switch a.Kind {
	case ActionDigit:
		return "digit " + string(a.Digit)
	case ActionOperator:
		return "operator " + a.Operator.Symbol()
	default:
		return a.Kind.String()
	}
}

// Reduce returns the state that follows s after a. Unknown kinds leave s unchanged.
func Reduce(s State, a Action) State {
	switch a.Kind {
	case ActionDigit:
		return s.InputDigit(a.Digit)
	case ActionDecimal:
		return s.InputDecimal()
	case ActionOperator:
		return s.PerformOperation(a.Operator)
	case ActionEquals:
		return s.Equals()
	case ActionClear:
		return s.Clear()
	}
	return s
}

// Engine holds one calculator's state and applies actions to it. It is not
// safe for concurrent use; callers serialise Dispatch.
type Engine struct {
	state State
}

// NewEngine returns an engine in the initial state.
func NewEngine() *Engine {
	return &Engine{state: Initial()}
}

// Dispatch applies a and returns the new state.
func (e *Engine) Dispatch(a Action) State {
	e.state = Reduce(e.state, a)
	return e.state
}

// State returns the current state.
func (e *Engine) State() State {
	return e.state
}
