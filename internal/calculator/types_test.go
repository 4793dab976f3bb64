package calculator

import (
	"errors"
	"math"
	"strings"
	"testing"

	"go-chi-keypad/internal/engine"
)

func strPtr(s string) *string { return &s }

func TestStateViewStateRejectsUnreachableDisplay(t *testing.T) {
	for _, display := range []string{"", "1.2.3", "abc", strings.Repeat("1", maxDisplayLength+1)} {
		_, err := StateView{Display: display}.State()
		if !errors.Is(err, errInvalidDisplay) {
			t.Fatalf("display %.20q: expected errInvalidDisplay, got %v", display, err)
		}
	}
}

func TestStateViewStateRejectsNonNumericOperand(t *testing.T) {
	_, err := StateView{Display: "3", FirstOperand: strPtr("abc")}.State()
	if !errors.Is(err, engine.ErrInvalidNumber) {
		t.Fatalf("expected ErrInvalidNumber, got %v", err)
	}
}

func TestStateViewRoundTrip(t *testing.T) {
	want := engine.State{
		Display:         "+Inf",
		FirstOperand:    math.Inf(1),
		HasFirstOperand: true,
		Operator:        engine.Divide,
	}

	got, err := NewStateView(want).State()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
