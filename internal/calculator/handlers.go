package calculator

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"go-chi-keypad/internal/engine"
	"go-chi-keypad/internal/handlers"
	"go-chi-keypad/internal/keyboard"
	"go-chi-keypad/internal/keypad"
	"go-chi-keypad/internal/observability"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

var validate = newValidator()

// newValidator adds the calculator's own tags: "calc_display" for display text
// and "calc_number" for formatted operands.
func newValidator() *validator.Validate {
	v := validator.New()
	must(v.RegisterValidation("calc_display", func(fl validator.FieldLevel) bool {
		return engine.ValidDisplay(fl.Field().String())
	}))
	must(v.RegisterValidation("calc_number", func(fl validator.FieldLevel) bool {
		_, err := engine.ParseNumber(fl.Field().String())
		return err == nil
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// decode reads a JSON body into dst and checks its validate tags.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("validate body: %w", err)
	}
	return nil
}

func elapsedMillis(start time.Time) float64 {
	return float64(time.Since(start).Nanoseconds()) / 1e6
}

// recordTransition records the metrics for one applied action.
func recordTransition(ctx context.Context, source string, a engine.Action, next engine.State, elapsed float64) {
	attrs := metric.WithAttributes(
		attribute.String("action", a.Kind.String()),
		attribute.String("source", source),
	)
	transitionCounter.Add(ctx, 1, attrs)
	transitionHistogram.Record(ctx, elapsed, attrs)

	computed := a.Kind == engine.ActionEquals || a.Kind == engine.ActionOperator
	if computed && next.HasFirstOperand && !math.IsInf(next.FirstOperand, 0) && !math.IsNaN(next.FirstOperand) {
		resultGauge.Record(ctx, next.FirstOperand, metric.WithAttributes(attribute.String("source", source)))
	}
}

func recordIgnored(ctx context.Context, source string) {
	ignoredCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

// ---------------------------------------------------------------------------
// Handler: single binary operation
// ---------------------------------------------------------------------------

// Calculate handles POST /calculator/calculate. Division by zero is not an
// error: the result is "+Inf", "-Inf" or "NaN".
func Calculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.calculate",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	var req CalcRequest
	if err := decode(r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "calculate", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	op, err := engine.ParseOperator(req.Op)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "calculate", "unknown operator", err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.String("calculator.operation", op.Name()),
		attribute.Float64("calculator.operand.a", req.A),
		attribute.Float64("calculator.operand.b", req.B),
	)

	start := time.Now()
	result := engine.Calculate(req.A, req.B, op)
	elapsed := elapsedMillis(start)
	text := engine.FormatNumber(result)

	attrs := metric.WithAttributes(
		attribute.String("action", "calculate"),
		attribute.String("operation", op.Name()),
	)
	transitionCounter.Add(ctx, 1, attrs)
	transitionHistogram.Record(ctx, elapsed, attrs)
	if !math.IsInf(result, 0) && !math.IsNaN(result) {
		resultGauge.Record(ctx, result, attrs)
	}

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.String("result", text),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculation completed",
		zap.String("operation", op.Name()),
		zap.Float64("a", req.A),
		zap.Float64("b", req.B),
		zap.String("result", text),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, CalcResponse{
		Operation: op.Name(),
		A:         req.A,
		B:         req.B,
		Result:    text,
	})
}

// ---------------------------------------------------------------------------
// Handler: pure reducer
// ---------------------------------------------------------------------------

// Reduce handles POST /calculator/reduce: it applies one action to a
// client-held state and returns the next state. Nothing is stored.
func Reduce(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.reduce",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	var req ReduceRequest
	if err := decode(r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "reduce", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	state := engine.Initial()
	if req.State != nil {
		var err error
		if state, err = req.State.State(); err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, "reduce", "invalid state", err, http.StatusBadRequest, w)
			return
		}
	}

	action, err := req.Action.Action()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "reduce", "invalid action", err, http.StatusBadRequest, w)
		return
	}

	start := time.Now()
	next := engine.Reduce(state, action)
	elapsed := elapsedMillis(start)

	recordTransition(ctx, "reduce", action, next, elapsed)

	span.SetAttributes(
		attribute.String("calculator.action", action.String()),
		attribute.String("calculator.phase", next.Phase().String()),
		attribute.String("calculator.display", next.Display),
	)
	span.SetStatus(codes.Ok, "")

	logger.Debug("state reduced",
		zap.Stringer("action", action),
		zap.String("display", next.Display),
		zap.Stringer("phase", next.Phase()),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, ReduceResponse{State: NewStateView(next)})
}

// ---------------------------------------------------------------------------
// Handler: key sequence replay
// ---------------------------------------------------------------------------

// translator returns the input mapping for a replay source.
func translator(source string) func(string) (engine.Action, bool) {
	if source == sourceKeypad {
		return keypad.Press
	}
	return keyboard.Translate
}

// Replay handles POST /calculator/replay. It feeds a sequence of keys (or keypad
// button labels) through a fresh calculator, creating a child span for every
// key.
func Replay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	// Parent span for the entire replay
	ctx, span := tracer.Start(ctx, "calculator.replay",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	var req ReplayRequest
	if err := decode(r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "replay", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	source := req.Source
	if source == "" {
		source = sourceKeyboard
	}

	state := engine.Initial()
	if req.State != nil {
		var err error
		if state, err = req.State.State(); err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, "replay", "invalid state", err, http.StatusBadRequest, w)
			return
		}
	}

	span.SetAttributes(
		attribute.String("replay.source", source),
		attribute.Int("replay.keys_count", len(req.Keys)),
	)

	translate := translator(source)
	steps := make([]ReplayStep, 0, len(req.Keys))

	for i, key := range req.Keys {
		// --- Child span per key ---
		_, keySpan := tracer.Start(ctx, fmt.Sprintf("calculator.replay.key.%d", i),
			trace.WithAttributes(
				attribute.Int("replay.key.index", i),
				attribute.String("replay.key", key),
				attribute.String("replay.key.display_before", state.Display),
			),
		)

		action, ok := translate(key)
		if !ok {
			recordIgnored(ctx, source)
			keySpan.AddEvent("key.ignored")
			keySpan.End()
			steps = append(steps, ReplayStep{Key: key, Handled: false, Display: state.Display})
			continue
		}

		start := time.Now()
		state = engine.Reduce(state, action)
		elapsed := elapsedMillis(start)

		recordTransition(ctx, source, action, state, elapsed)

		keySpan.SetAttributes(
			attribute.String("replay.key.action", action.String()),
			attribute.String("replay.key.display_after", state.Display),
		)
		keySpan.SetStatus(codes.Ok, "")
		keySpan.End()

		logger.Debug("replay key applied",
			zap.Int("step", i),
			zap.String("key", key),
			zap.Stringer("action", action),
			zap.String("display", state.Display),
		)

		steps = append(steps, ReplayStep{Key: key, Handled: true, Display: state.Display})
	}

	span.AddEvent("replay.complete", trace.WithAttributes(
		attribute.String("display", state.Display),
		attribute.Int("total_keys", len(req.Keys)),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("replay completed",
		zap.String("source", source),
		zap.Int("keys", len(req.Keys)),
		zap.String("display", state.Display),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, ReplayResponse{
		Source: source,
		Steps:  steps,
		State:  NewStateView(state),
	})
}
