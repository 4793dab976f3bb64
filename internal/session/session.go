// Package session keeps mounted calculators for the HTTP shell. A session is
// mounted on creation, receives key presses through its own keyboard bus,
// and is unmounted explicitly or after sitting idle past the TTL.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-chi-keypad/internal/engine"
	"go-chi-keypad/internal/keyboard"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var (
	ErrNotFound     = errors.New("session not found")
	ErrLimitReached = errors.New("session limit reached")

	errStillActive = errors.New("session active since sweep cutoff")
)

// Unmount reasons recorded on calculator_sessions_unmounted_total.
const (
	ReasonClosed   = "closed"
	ReasonExpired  = "expired"
	ReasonShutdown = "shutdown"
)

// Session is one mounted calculator. Transitions on a session are serialised.
type Session struct {
	ID string

	mu       sync.Mutex
	engine   *engine.Engine
	keys     *keyboard.Bus
	detach   func()
	lastSeen time.Time
	now      func() time.Time

	unmounted bool
}

// Dispatch applies a to the session's calculator. It returns ErrNotFound
// once the session has been unmounted.
func (s *Session) Dispatch(a engine.Action) (engine.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unmounted {
		return engine.State{}, fmt.Errorf("%w: %s", ErrNotFound, s.ID)
	}
	s.lastSeen = s.now()
	return s.engine.Dispatch(a), nil
}

// PressKey publishes a key press to the session's keyboard subscription and
// reports whether the key was handled. It returns ErrNotFound once the
// session has been unmounted.
func (s *Session) PressKey(key string) (engine.State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unmounted {
		return engine.State{}, false, fmt.Errorf("%w: %s", ErrNotFound, s.ID)
	}
	s.lastSeen = s.now()
	handled := s.keys.Publish(key)
	return s.engine.State(), handled, nil
}

// State returns the current calculator state.
func (s *Session) State() engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

// unmountLocked releases the keyboard subscription and refuses further
// input. The caller holds s.mu.
func (s *Session) unmountLocked() {
	s.unmounted = true
	s.detach()
}

// Options configures a Store.
type Options struct {
	// TTL is how long a session may sit idle before Sweep unmounts it.
	TTL time.Duration
	// SweepInterval is the period Run sweeps at.
	SweepInterval time.Duration
	// MaxSessions caps mounted sessions; zero means unlimited.
	MaxSessions int
	Logger      *zap.Logger
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Store holds the mounted sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options

	active    prometheus.GaugeFunc
	mounted   prometheus.Counter
	unmounted *prometheus.CounterVec
}

func NewStore(opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	st := &Store{
		sessions: make(map[string]*Session),
		opts:     opts,
		mounted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "calculator_sessions_mounted_total",
			Help: "Total number of calculator sessions mounted.",
		}),
		unmounted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calculator_sessions_unmounted_total",
			Help: "Total number of calculator sessions unmounted, by reason.",
		}, []string{"reason"}),
	}
	st.active = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "calculator_sessions_active",
		Help: "Number of currently mounted calculator sessions.",
	}, func() float64 { return float64(st.Len()) })

	return st
}

// Register adds the store's collectors to reg.
func (st *Store) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{st.active, st.mounted, st.unmounted} {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("registering session collector: %w", err)
		}
	}
	return nil
}

// Mount creates a calculator in the initial state and subscribes it to its
// keyboard bus.
func (st *Store) Mount() (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.opts.MaxSessions > 0 && len(st.sessions) >= st.opts.MaxSessions {
		return nil, fmt.Errorf("%w: %d mounted", ErrLimitReached, len(st.sessions))
	}

	s := &Session{
		ID:     uuid.New().String(),
		engine: engine.NewEngine(),
		keys:   keyboard.NewBus(),
		now:    st.opts.Now,
	}
	s.lastSeen = s.now()
	s.detach = keyboard.Attach(s.keys, s.engine)

	st.sessions[s.ID] = s
	st.mounted.Inc()

	st.opts.Logger.Debug("session mounted", zap.String("session_id", s.ID))
	return s, nil
}

// Get returns the mounted session with the given id.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// Unmount releases the session's keyboard subscription and discards it.
func (st *Store) Unmount(id string) error {
	return st.remove(id, ReasonClosed, time.Time{})
}

// remove unmounts id. A non-zero cutoff keeps sessions seen after it; the
// check and the unmount happen under both locks so input racing a sweep is
// either applied before expiry or rejected with ErrNotFound.
func (st *Store) remove(id, reason string, cutoff time.Time) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	if !ok {
		st.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.mu.Lock()
	if !cutoff.IsZero() && s.lastSeen.After(cutoff) {
		s.mu.Unlock()
		st.mu.Unlock()
		return errStillActive
	}
	delete(st.sessions, id)
	s.unmountLocked()
	s.mu.Unlock()
	st.mu.Unlock()

	st.unmounted.WithLabelValues(reason).Inc()

	st.opts.Logger.Debug("session unmounted",
		zap.String("session_id", id),
		zap.String("reason", reason),
	)
	return nil
}

// Len returns the number of mounted sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) ids() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()

	ids := make([]string, 0, len(st.sessions))
	for id := range st.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Sweep unmounts sessions idle for longer than the TTL and returns how many
// were removed. A zero TTL disables expiry.
func (st *Store) Sweep() int {
	if st.opts.TTL <= 0 {
		return 0
	}

	cutoff := st.opts.Now().Add(-st.opts.TTL)
	removed := 0
	for _, id := range st.ids() {
		if err := st.remove(id, ReasonExpired, cutoff); err == nil {
			removed++
		}
	}

	if removed > 0 {
		st.opts.Logger.Info("expired idle sessions", zap.Int("count", removed))
	}
	return removed
}

// Run sweeps on every SweepInterval until ctx is done, then unmounts every
// remaining session.
func (st *Store) Run(ctx context.Context) error {
	interval := st.opts.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			st.closeAll()
			return nil
		case <-ticker.C:
			st.Sweep()
		}
	}
}

func (st *Store) closeAll() {
	for _, id := range st.ids() {
		_ = st.remove(id, ReasonShutdown, time.Time{})
	}
}
