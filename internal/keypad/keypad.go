// Package keypad describes the on-screen calculator buttons and maps a
// button activation to its action.
package keypad

import "go-chi-keypad/internal/engine"

// Class groups buttons by role for rendering.
type Class int

const (
	ClassDigit Class = iota
	ClassFunction
	ClassOperator
)

// Button is one keypad key. Unwired buttons are drawn but do nothing.
type Button struct {
	Label  string
	Class  Class
	Action engine.Action
	Wired  bool
	// Span is the number of grid columns the button occupies.
	Span int
}

func digit(label rune) Button {
	return Button{Label: string(label), Class: ClassDigit, Action: engine.DigitAction(label), Wired: true, Span: 1}
}

func operator(op engine.Operator) Button {
	return Button{Label: op.Symbol(), Class: ClassOperator, Action: engine.OperatorAction(op), Wired: true, Span: 1}
}

var layout = [][]Button{
	{
		{Label: "AC", Class: ClassFunction, Action: engine.ClearAction(), Wired: true, Span: 1},
		{Label: "±", Class: ClassFunction, Span: 1},
		{Label: "%", Class: ClassFunction, Span: 1},
		operator(engine.Divide),
	},
	{digit('7'), digit('8'), digit('9'), operator(engine.Multiply)},
	{digit('4'), digit('5'), digit('6'), operator(engine.Subtract)},
	{digit('1'), digit('2'), digit('3'), operator(engine.Add)},
	{
		{Label: "0", Class: ClassDigit, Action: engine.DigitAction('0'), Wired: true, Span: 2},
		{Label: ".", Class: ClassDigit, Action: engine.DecimalAction(), Wired: true, Span: 1},
		{Label: "=", Class: ClassOperator, Action: engine.EqualsAction(), Wired: true, Span: 1},
	},
}

// Columns is the width of the keypad grid.
const Columns = 4

var aliases = map[string]string{
	"-": "−",
	"*": "×",
	"/": "÷",
}

// Layout returns the keypad rows, top to bottom.
func Layout() [][]Button {
	rows := make([][]Button, len(layout))
	for i, row := range layout {
		rows[i] = append([]Button(nil), row...)
	}
	return rows
}

// Lookup finds a button by its label or an ASCII alias of it.
func Lookup(label string) (Button, bool) {
	if canonical, ok := aliases[label]; ok {
		label = canonical
	}
	for _, row := range layout {
		for _, b := range row {
			if b.Label == label {
				return b, true
			}
		}
	}
	return Button{}, false
}

// Press returns the action for activating the labelled button. Unknown and
// unwired buttons report false.
func Press(label string) (engine.Action, bool) {
	b, ok := Lookup(label)
	if !ok || !b.Wired {
		return engine.Action{}, false
	}
	return b.Action, true
}
