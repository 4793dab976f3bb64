package terminal

import (
	"go-chi-keypad/internal/keypad"

	"github.com/gdamore/tcell/v2"
)

var (
	styleDisplay  = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite).Bold(true)
	styleDigit    = tcell.StyleDefault.Background(tcell.ColorDimGray).Foreground(tcell.ColorWhite)
	styleFunction = tcell.StyleDefault.Background(tcell.ColorSilver).Foreground(tcell.ColorBlack)
	styleOperator = tcell.StyleDefault.Background(tcell.ColorOrange).Foreground(tcell.ColorWhite).Bold(true)
	styleHint     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

func buttonStyle(b keypad.Button) tcell.Style {
	var st tcell.Style
	switch b.Class {
	case keypad.ClassOperator:
		st = styleOperator
	case keypad.ClassFunction:
		st = styleFunction
	default:
		st = styleDigit
	}
	if !b.Wired {
		st = st.Dim(true)
	}
	return st
}

func fill(s tcell.Screen, x, y, w, h int, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			s.SetContent(col, row, ' ', nil, style)
		}
	}
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// Draw renders the display and keypad.
func (sh *Shell) Draw() {
	s := sh.screen
	s.Clear()

	width := keypad.Columns*cellWidth - 1
	fill(s, originX, originY, width, displayRows, styleDisplay)

	// long numbers keep their rightmost digits visible
	text := []rune(sh.engine.State().Display)
	inner := width - 2
	if len(text) > inner {
		text = text[len(text)-inner:]
	}
	drawText(s, originX+width-1-len(text), originY+displayRows/2, string(text), styleDisplay)

	for _, p := range sh.buttons {
		st := buttonStyle(p.button)
		fill(s, p.x, p.y, p.w, p.h, st)
		label := []rune(p.button.Label)
		drawText(s, p.x+(p.w-len(label))/2, p.y+p.h/2, p.button.Label, st)
	}

	bottom := originY + displayRows + 1 + len(keypad.Layout())*cellHeight
	drawText(s, originX, bottom, "Esc clear · Enter = · Ctrl+C quit", styleHint)
}
