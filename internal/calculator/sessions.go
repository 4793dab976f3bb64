package calculator

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go-chi-keypad/internal/engine"
	"go-chi-keypad/internal/handlers"
	"go-chi-keypad/internal/keyboard"
	"go-chi-keypad/internal/keypad"
	"go-chi-keypad/internal/observability"
	"go-chi-keypad/internal/session"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// SessionHandlers serves the mounted-calculator endpoints.
type SessionHandlers struct {
	store *session.Store
}

func NewSessionHandlers(store *session.Store) *SessionHandlers {
	return &SessionHandlers{store: store}
}

// startSpan opens the handler span and returns the pieces every session
// handler needs.
func startSpan(r *http.Request, name string) (context.Context, trace.Span, *zap.Logger, string) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	attrs := []attribute.KeyValue{attribute.String("request.id", requestID)}
	if id := chi.URLParam(r, "id"); id != "" {
		attrs = append(attrs, attribute.String("session.id", id))
	}

	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span, logger, requestID
}

// sessionError maps store errors to HTTP statuses.
func sessionError(ctx context.Context, span trace.Span, logger *zap.Logger, opName string, err error, w http.ResponseWriter) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		observability.RecordError(ctx, span, logger, errorCounter, opName, "session not found", err, http.StatusNotFound, w)
	case errors.Is(err, session.ErrLimitReached):
		observability.RecordError(ctx, span, logger, errorCounter, opName, "session limit reached", err, http.StatusTooManyRequests, w)
	default:
		observability.RecordError(ctx, span, logger, errorCounter, opName, "session error", err, http.StatusInternalServerError, w)
	}
}

// Mount handles POST /calculator/sessions.
func (h *SessionHandlers) Mount(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger, requestID := startSpan(r, "calculator.session.mount")
	defer span.End()

	s, err := h.store.Mount()
	if err != nil {
		sessionError(ctx, span, logger, "mount", err, w)
		return
	}

	span.SetAttributes(attribute.String("session.id", s.ID))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator mounted",
		zap.String("session_id", s.ID),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusCreated, SessionResponse{
		SessionID: s.ID,
		State:     NewStateView(s.State()),
	})
}

// Get handles GET /calculator/sessions/{id}.
func (h *SessionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger, _ := startSpan(r, "calculator.session.get")
	defer span.End()

	s, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		sessionError(ctx, span, logger, "get", err, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, SessionResponse{
		SessionID: s.ID,
		State:     NewStateView(s.State()),
	})
}

// Unmount handles DELETE /calculator/sessions/{id}.
func (h *SessionHandlers) Unmount(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger, requestID := startSpan(r, "calculator.session.unmount")
	defer span.End()

	id := chi.URLParam(r, "id")
	if err := h.store.Unmount(id); err != nil {
		sessionError(ctx, span, logger, "unmount", err, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("calculator unmounted",
		zap.String("session_id", id),
		zap.String("request_id", requestID),
	)

	w.WriteHeader(http.StatusNoContent)
}

// Key handles POST /calculator/sessions/{id}/keys: a physical key press
// delivered through the session's keyboard subscription.
func (h *SessionHandlers) Key(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger, requestID := startSpan(r, "calculator.session.key")
	defer span.End()

	var req KeyRequest
	if err := decode(r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "key", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	s, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		sessionError(ctx, span, logger, "key", err, w)
		return
	}

	start := time.Now()
	state, handled, err := s.PressKey(req.Key)
	elapsed := elapsedMillis(start)
	if err != nil {
		sessionError(ctx, span, logger, "key", err, w)
		return
	}

	action, _ := keyboard.Translate(req.Key)
	finishInput(ctx, span, logger, requestID, sourceKeyboard, req.Key, action, handled, s.ID, state, elapsed, w)
}

// Press handles POST /calculator/sessions/{id}/press: a pointer activation
// of a keypad button. Decorative buttons (± and %) report handled=false.
func (h *SessionHandlers) Press(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger, requestID := startSpan(r, "calculator.session.press")
	defer span.End()

	var req PressRequest
	if err := decode(r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "press", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	s, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		sessionError(ctx, span, logger, "press", err, w)
		return
	}

	start := time.Now()
	action, handled := keypad.Press(req.Button)
	var state engine.State
	if handled {
		state, err = s.Dispatch(action)
	} else {
		state = s.State()
	}
	elapsed := elapsedMillis(start)
	if err != nil {
		sessionError(ctx, span, logger, "press", err, w)
		return
	}

	finishInput(ctx, span, logger, requestID, sourceKeypad, req.Button, action, handled, s.ID, state, elapsed, w)
}

func finishInput(ctx context.Context, span trace.Span, logger *zap.Logger, requestID, source, input string, action engine.Action, handled bool, sessionID string, state engine.State, elapsed float64, w http.ResponseWriter) {
	span.SetAttributes(
		attribute.String("calculator.input", input),
		attribute.String("calculator.source", source),
		attribute.Bool("calculator.handled", handled),
		attribute.String("calculator.display", state.Display),
	)

	if handled {
		recordTransition(ctx, source, action, state, elapsed)
		span.AddEvent("transition.applied", trace.WithAttributes(
			attribute.String("action", action.String()),
			attribute.String("phase", state.Phase().String()),
		))
	} else {
		recordIgnored(ctx, source)
		span.AddEvent("input.ignored")
	}
	span.SetStatus(codes.Ok, "")

	logger.Debug("calculator input",
		zap.String("session_id", sessionID),
		zap.String("source", source),
		zap.String("input", input),
		zap.Bool("handled", handled),
		zap.String("display", state.Display),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, InputResponse{
		SessionID: sessionID,
		Handled:   handled,
		State:     NewStateView(state),
	})
}
