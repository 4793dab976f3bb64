// Package terminal renders the calculator keypad on a tcell screen. Key
// presses reach the calculator through a keyboard bus subscription that
// lives exactly as long as the shell is mounted; mouse clicks on buttons go
// through the keypad mapping.
package terminal

import (
	"context"

	"go-chi-keypad/internal/engine"
	"go-chi-keypad/internal/keyboard"
	"go-chi-keypad/internal/keypad"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// Grid geometry in terminal cells.
const (
	originX     = 2
	originY     = 1
	cellWidth   = 7
	cellHeight  = 3
	displayRows = 3
)

type placedButton struct {
	button     keypad.Button
	x, y, w, h int
}

func (p placedButton) contains(x, y int) bool {
	return x >= p.x && x < p.x+p.w && y >= p.y && y < p.y+p.h
}

// Shell is the terminal presentation of one calculator.
type Shell struct {
	screen  tcell.Screen
	engine  *engine.Engine
	keys    *keyboard.Bus
	logger  *zap.Logger
	buttons []placedButton

	mouseDown bool
}

// New builds a shell on an initialised screen. A nil logger discards output.
func New(screen tcell.Screen, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{
		screen:  screen,
		engine:  engine.NewEngine(),
		keys:    keyboard.NewBus(),
		logger:  logger,
		buttons: placeButtons(),
	}
}

func placeButtons() []placedButton {
	var placed []placedButton
	top := originY + displayRows + 1
	for row, buttons := range keypad.Layout() {
		col := 0
		for _, b := range buttons {
			placed = append(placed, placedButton{
				button: b,
				x:      originX + col*cellWidth,
				y:      top + row*cellHeight,
				w:      b.Span*cellWidth - 1,
				h:      cellHeight - 1,
			})
			col += b.Span
		}
	}
	return placed
}

// Mount subscribes the calculator to key presses. The returned function
// releases the subscription; calling it again is harmless.
func (sh *Shell) Mount() (unmount func()) {
	return keyboard.Attach(sh.keys, sh.engine)
}

// State returns the calculator state.
func (sh *Shell) State() engine.State {
	return sh.engine.State()
}

// ButtonAt returns the keypad button drawn at the given cell.
func (sh *Shell) ButtonAt(x, y int) (keypad.Button, bool) {
	for _, p := range sh.buttons {
		if p.contains(x, y) {
			return p.button, true
		}
	}
	return keypad.Button{}, false
}

// keyName converts a tcell key event into the symbol the keyboard adapter
// understands.
func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyEnter:
		return keyboard.KeyEnter
	case tcell.KeyEscape:
		return keyboard.KeyEscape
	case tcell.KeyRune:
		return string(ev.Rune())
	default:
		return ev.Name()
	}
}

// HandleEvent processes one screen event and reports whether the shell
// should exit.
func (sh *Shell) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		sh.screen.Sync()
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyCtrlQ {
			return true
		}
		key := keyName(ev)
		handled := sh.keys.Publish(key)
		sh.logger.Debug("key press",
			zap.String("key", key),
			zap.Bool("handled", handled),
			zap.String("display", sh.engine.State().Display),
		)
	case *tcell.EventMouse:
		sh.handleMouse(ev)
	}
	return false
}

func (sh *Shell) handleMouse(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		sh.mouseDown = false
		return
	}
	if sh.mouseDown {
		return
	}
	sh.mouseDown = true

	b, ok := sh.ButtonAt(ev.Position())
	if !ok {
		return
	}
	a, ok := keypad.Press(b.Label)
	if !ok {
		return
	}
	state := sh.engine.Dispatch(a)
	sh.logger.Debug("button press",
		zap.String("button", b.Label),
		zap.String("display", state.Display),
	)
}

// Run mounts the shell and processes events until the user quits, the
// screen is finalised, or ctx is done.
func (sh *Shell) Run(ctx context.Context) error {
	unmount := sh.Mount()
	defer unmount()

	stop := context.AfterFunc(ctx, func() {
		_ = sh.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		sh.Draw()
		sh.screen.Show()

		ev := sh.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			return ctx.Err()
		}
		if sh.HandleEvent(ev) {
			return nil
		}
	}
}
