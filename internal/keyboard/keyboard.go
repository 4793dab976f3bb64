// Package keyboard turns physical key presses into calculator actions and
// manages the lifetime of key subscriptions.
package keyboard

import (
	"context"
	"sort"
	"sync"

	"go-chi-keypad/internal/engine"
)

// Key names for the non-printable keys the calculator understands.
const (
	KeyEnter  = "Enter"
	KeyEscape = "Escape"
)

var keyActions = map[string]engine.Action{
	".":       engine.DecimalAction(),
	KeyEnter:  engine.EqualsAction(),
	"=":       engine.EqualsAction(),
	KeyEscape: engine.ClearAction(),
	"+":       engine.OperatorAction(engine.Add),
	"-":       engine.OperatorAction(engine.Subtract),
	"*":       engine.OperatorAction(engine.Multiply),
	"/":       engine.OperatorAction(engine.Divide),
}

// Translate maps a key symbol to its action. Keys the calculator does not
// use report false.
func Translate(key string) (engine.Action, bool) {
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		return engine.DigitAction(rune(key[0])), true
	}
	a, ok := keyActions[key]
	return a, ok
}

// Dispatcher applies actions to a calculator.
type Dispatcher interface {
	Dispatch(engine.Action) engine.State
}

// Handler receives a key and reports whether it consumed it.
type Handler func(key string) bool

// Bus fans key presses out to subscribed handlers.
type Bus struct {
	mu       sync.Mutex
	next     int
	handlers map[int]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers h and returns a function that removes it. Calling the
// returned function more than once has no further effect.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers key to every handler in subscription order and reports
// whether any of them consumed it.
func (b *Bus) Publish(key string) bool {
	b.mu.Lock()
	ids := make([]int, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]Handler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.Unlock()

	handled := false
	for _, h := range handlers {
		if h(key) {
			handled = true
		}
	}
	return handled
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}

// Attach subscribes d to bus for the lifetime of a mounted calculator. The
// returned detach releases the subscription exactly once.
func Attach(bus *Bus, d Dispatcher) (detach func()) {
	return bus.Subscribe(func(key string) bool {
		a, ok := Translate(key)
		if !ok {
			return false
		}
		d.Dispatch(a)
		return true
	})
}

// Listen dispatches keys read from the channel until it is closed or ctx is
// done.
func Listen(ctx context.Context, keys <-chan string, d Dispatcher) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case key, ok := <-keys:
			if !ok {
				return nil
			}
			if a, ok := Translate(key); ok {
				d.Dispatch(a)
			}
		}
	}
}
