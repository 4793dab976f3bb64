package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apply(s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func digits(ds string) []Action {
	actions := make([]Action, 0, len(ds))
	for _, d := range ds {
		actions = append(actions, DigitAction(d))
	}
	return actions
}

func TestInputDigitConcatenates(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "single digit replaces zero", input: "7", expect: "7"},
		{name: "several digits", input: "123", expect: "123"},
		{name: "leading zero collapses", input: "05", expect: "5"},
		{name: "repeated zeros collapse", input: "000", expect: "0"},
		{name: "zero after digit appends", input: "10", expect: "10"},
		{name: "long input is not truncated", input: "12345678901234567890", expect: "12345678901234567890"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := apply(Initial(), digits(tt.input)...)
			assert.Equal(t, tt.expect, s.Display)
		})
	}
}

func TestInputDigitIgnoresNonDigits(t *testing.T) {
	s := Initial().InputDigit('4')
	assert.Equal(t, s, s.InputDigit('x'))
	assert.Equal(t, s, s.InputDigit('٣'))
}

func TestInputDigitAfterOperatorStartsNewNumber(t *testing.T) {
	s := apply(Initial(), DigitAction('9'), OperatorAction(Add), DigitAction('4'))

	assert.Equal(t, "4", s.Display)
	assert.False(t, s.WaitingForSecondOperand)
}

func TestInputDecimalNeverAddsSecondPoint(t *testing.T) {
	sequences := [][]Action{
		{DecimalAction(), DecimalAction()},
		{DigitAction('1'), DecimalAction(), DigitAction('5'), DecimalAction(), DigitAction('2')},
		{DecimalAction(), DigitAction('3'), DecimalAction(), DecimalAction()},
		{DigitAction('2'), OperatorAction(Multiply), DecimalAction(), DecimalAction(), DigitAction('5')},
	}

	for _, seq := range sequences {
		s := Initial()
		for _, a := range seq {
			s = Reduce(s, a)
			require.LessOrEqual(t, strings.Count(s.Display, "."), 1, "display %q", s.Display)
			require.NotEmpty(t, s.Display)
		}
	}
}

func TestInputDecimal(t *testing.T) {
	assert.Equal(t, "0.", Initial().InputDecimal().Display)
	assert.Equal(t, "12.", apply(Initial(), DigitAction('1'), DigitAction('2'), DecimalAction()).Display)

	waiting := apply(Initial(), DigitAction('8'), OperatorAction(Subtract), DecimalAction())
	assert.Equal(t, "0.", waiting.Display)
	assert.False(t, waiting.WaitingForSecondOperand)
}

func TestClearAlwaysReturnsInitial(t *testing.T) {
	states := []State{
		Initial(),
		apply(Initial(), digits("42")...),
		apply(Initial(), DigitAction('2'), OperatorAction(Add)),
		apply(Initial(), DigitAction('2'), OperatorAction(Add), DigitAction('3'), EqualsAction()),
		apply(Initial(), DigitAction('9'), OperatorAction(Divide), DigitAction('0'), EqualsAction()),
	}

	for _, s := range states {
		assert.Equal(t, Initial(), s.Clear())
		assert.Equal(t, Initial(), Reduce(s, ClearAction()))
	}
}

func TestOperatorChaining(t *testing.T) {
	s := apply(Initial(), DigitAction('2'), OperatorAction(Add), DigitAction('3'), OperatorAction(Add))

	assert.Equal(t, "5", s.Display)
	assert.Equal(t, Add, s.Operator)
	assert.True(t, s.HasFirstOperand)
	assert.Equal(t, 5.0, s.FirstOperand)
	assert.True(t, s.WaitingForSecondOperand)
}

func TestOperatorChainingSwitchesOperator(t *testing.T) {
	s := apply(Initial(), digits("10")...)
	s = apply(s, OperatorAction(Subtract), DigitAction('4'), OperatorAction(Multiply), DigitAction('3'), EqualsAction())

	assert.Equal(t, "18", s.Display)
}

func TestRepeatedOperatorReappliesPending(t *testing.T) {
	s := apply(Initial(), DigitAction('2'), OperatorAction(Add), OperatorAction(Add))

	assert.Equal(t, "4", s.Display)
	assert.Equal(t, 4.0, s.FirstOperand)
}

func TestEqualsWithoutSecondOperandIsNoop(t *testing.T) {
	before := apply(Initial(), DigitAction('2'), OperatorAction(Add))
	after := before.Equals()

	assert.Equal(t, before, after)
}

func TestEqualsWithoutOperatorIsNoop(t *testing.T) {
	before := apply(Initial(), digits("31")...)
	assert.Equal(t, before, before.Equals())
	assert.Equal(t, Initial(), Initial().Equals())
}

func TestEqualsEndToEnd(t *testing.T) {
	tests := []struct {
		name    string
		actions []Action
		expect  string
	}{
		{
			name:    "multiply",
			actions: []Action{DigitAction('5'), OperatorAction(Multiply), DigitAction('3'), EqualsAction()},
			expect:  "15",
		},
		{
			name:    "divide by zero",
			actions: []Action{DigitAction('9'), OperatorAction(Divide), DigitAction('0'), EqualsAction()},
			expect:  "+Inf",
		},
		{
			name: "decimals",
			actions: []Action{
				DigitAction('1'), DecimalAction(), DigitAction('5'), OperatorAction(Add),
				DigitAction('2'), DecimalAction(), DigitAction('5'), EqualsAction(),
			},
			expect: "4",
		},
		{
			name: "floating point artifacts are kept",
			actions: []Action{
				DigitAction('0'), DecimalAction(), DigitAction('1'), OperatorAction(Add),
				DigitAction('0'), DecimalAction(), DigitAction('2'), EqualsAction(),
			},
			expect: "0.30000000000000004",
		},
		{
			name:    "subtract below zero",
			actions: []Action{DigitAction('3'), OperatorAction(Subtract), DigitAction('8'), EqualsAction()},
			expect:  "-5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := apply(Initial(), tt.actions...)
			assert.Equal(t, tt.expect, s.Display)
			assert.Equal(t, NoOperator, s.Operator)
			assert.True(t, s.WaitingForSecondOperand)
		})
	}
}

func TestEqualsThenOperatorContinuesFromResult(t *testing.T) {
	s := apply(Initial(), DigitAction('5'), OperatorAction(Multiply), DigitAction('3'), EqualsAction())
	s = apply(s, OperatorAction(Subtract), DigitAction('5'), EqualsAction())

	assert.Equal(t, "10", s.Display)
}

func TestZeroDividedByZeroIsNaN(t *testing.T) {
	s := apply(Initial(), DigitAction('0'), OperatorAction(Divide), DigitAction('0'), EqualsAction())

	assert.Equal(t, "NaN", s.Display)
	assert.True(t, math.IsNaN(s.FirstOperand))
}

func TestDigitsAfterInfinityKeepInfinity(t *testing.T) {
	s := apply(Initial(), DigitAction('1'), OperatorAction(Divide), DigitAction('0'), EqualsAction())
	s = apply(s, OperatorAction(Add), DigitAction('1'), EqualsAction())

	assert.Equal(t, "+Inf", s.Display)
}

func TestEngineDispatch(t *testing.T) {
	e := NewEngine()
	require.Equal(t, Initial(), e.State())

	e.Dispatch(DigitAction('6'))
	e.Dispatch(OperatorAction(Divide))
	e.Dispatch(DigitAction('4'))
	got := e.Dispatch(EqualsAction())

	assert.Equal(t, "1.5", got.Display)
	assert.Equal(t, got, e.State())
}

func TestReduceUnknownKindIsNoop(t *testing.T) {
	s := apply(Initial(), digits("12")...)
	assert.Equal(t, s, Reduce(s, Action{}))
}

func TestPhase(t *testing.T) {
	tests := []struct {
		name    string
		actions []Action
		expect  Phase
	}{
		{name: "initial", expect: Idle},
		{name: "after clear", actions: []Action{DigitAction('3'), ClearAction()}, expect: Idle},
		{name: "digits", actions: digits("12"), expect: OperandEntered},
		{name: "operator", actions: []Action{DigitAction('1'), OperatorAction(Add)}, expect: OperatorPending},
		{name: "second operand", actions: []Action{DigitAction('1'), OperatorAction(Add), DigitAction('2')}, expect: OperatorPending},
		{name: "result", actions: []Action{DigitAction('1'), OperatorAction(Add), DigitAction('2'), EqualsAction()}, expect: ResultShown},
		{name: "typing after result", actions: []Action{DigitAction('1'), OperatorAction(Add), DigitAction('2'), EqualsAction(), DigitAction('7')}, expect: OperandEntered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, apply(Initial(), tt.actions...).Phase())
		})
	}
}
