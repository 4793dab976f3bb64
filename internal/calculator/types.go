package calculator

import (
	"errors"
	"fmt"

	"go-chi-keypad/internal/engine"
)

var (
	errInvalidDigit   = errors.New("digit must be a single character 0-9")
	errInvalidDisplay = errors.New("display is not a calculator number")
)

// maxDisplayLength bounds client-supplied display text. Keep in sync with the
// max on StateView.Display.
const maxDisplayLength = 512

// StateView is the wire form of engine.State. Numbers travel as display text
// so that Inf and NaN survive JSON.
type StateView struct {
	Display                 string  `json:"display" validate:"required,max=512,calc_display"`
	FirstOperand            *string `json:"first_operand,omitempty" validate:"omitempty,max=64,calc_number"`
	Operator                string  `json:"operator,omitempty"`
	WaitingForSecondOperand bool    `json:"waiting_for_second_operand"`
	Phase                   string  `json:"phase,omitempty"`
}

// NewStateView converts an engine state for the response body.
func NewStateView(s engine.State) StateView {
	v := StateView{
		Display:                 s.Display,
		Operator:                s.Operator.Symbol(),
		WaitingForSecondOperand: s.WaitingForSecondOperand,
		Phase:                   s.Phase().String(),
	}
	if s.HasFirstOperand {
		first := engine.FormatNumber(s.FirstOperand)
		v.FirstOperand = &first
	}
	return v
}

// State converts a client-supplied view back into an engine state. Phase is
// derived and ignored on input. Display text the calculator could never show
// and first operands that are not formatted numbers are rejected.
func (v StateView) State() (engine.State, error) {
	if len(v.Display) > maxDisplayLength || !engine.ValidDisplay(v.Display) {
		return engine.State{}, fmt.Errorf("%w: %.32q", errInvalidDisplay, v.Display)
	}

	s := engine.State{
		Display:                 v.Display,
		WaitingForSecondOperand: v.WaitingForSecondOperand,
	}
	if v.FirstOperand != nil {
		first, err := engine.ParseNumber(*v.FirstOperand)
		if err != nil {
			return engine.State{}, err
		}
		s.FirstOperand = first
		s.HasFirstOperand = true
	}
	if v.Operator != "" {
		op, err := engine.ParseOperator(v.Operator)
		if err != nil {
			return engine.State{}, err
		}
		s.Operator = op
	}
	return s, nil
}

// ActionView is the wire form of engine.Action. Value holds the digit or the
// operator symbol.
type ActionView struct {
	Type  string `json:"type" validate:"required,oneof=digit decimal operator equals clear"`
	Value string `json:"value,omitempty"`
}

func (v ActionView) Action() (engine.Action, error) {
	kind, err := engine.ParseActionKind(v.Type)
	if err != nil {
		return engine.Action{}, err
	}

	switch kind {
	case engine.ActionDigit:
		if len(v.Value) != 1 || v.Value[0] < '0' || v.Value[0] > '9' {
			return engine.Action{}, fmt.Errorf("%w: %q", errInvalidDigit, v.Value)
		}
		return engine.DigitAction(rune(v.Value[0])), nil
	case engine.ActionOperator:
		op, err := engine.ParseOperator(v.Value)
		if err != nil {
			return engine.Action{}, err
		}
		return engine.OperatorAction(op), nil
	}
	return engine.Action{Kind: kind}, nil
}

// CalcRequest is the JSON body for POST /calculator/calculate.
type CalcRequest struct {
	A  float64 `json:"a"`
	B  float64 `json:"b"`
	Op string  `json:"op" validate:"required"`
}

// CalcResponse carries the result as display text.
type CalcResponse struct {
	Operation string  `json:"operation"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Result    string  `json:"result"`
}

// ReduceRequest is the JSON body for POST /calculator/reduce. A missing state
// means the initial state.
type ReduceRequest struct {
	State  *StateView `json:"state,omitempty"`
	Action ActionView `json:"action"`
}

type ReduceResponse struct {
	State StateView `json:"state"`
}

// Input sources for replay and metrics.
const (
	sourceKeyboard = "keyboard"
	sourceKeypad   = "keypad"
)

// ReplayRequest is the JSON body for POST /calculator/replay.
type ReplayRequest struct {
	State  *StateView `json:"state,omitempty"`
	Keys   []string   `json:"keys" validate:"required,min=1,max=256,dive,required,max=32"`
	Source string     `json:"source,omitempty" validate:"omitempty,oneof=keyboard keypad"`
}

// ReplayStep records one replayed key.
type ReplayStep struct {
	Key     string `json:"key"`
	Handled bool   `json:"handled"`
	Display string `json:"display"`
}

type ReplayResponse struct {
	Source string       `json:"source"`
	Steps  []ReplayStep `json:"steps"`
	State  StateView    `json:"state"`
}

// KeyRequest is the JSON body for POST /calculator/sessions/{id}/keys.
type KeyRequest struct {
	Key string `json:"key" validate:"required,max=32"`
}

// PressRequest is the JSON body for POST /calculator/sessions/{id}/press.
type PressRequest struct {
	Button string `json:"button" validate:"required,max=8"`
}

type SessionResponse struct {
	SessionID string    `json:"session_id"`
	State     StateView `json:"state"`
}

// InputResponse answers a key press or button press. Handled is false for
// keys and buttons that map to no action.
type InputResponse struct {
	SessionID string    `json:"session_id"`
	Handled   bool      `json:"handled"`
	State     StateView `json:"state"`
}
