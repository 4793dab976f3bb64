package calculator

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metric instruments. They are no-ops until InitMetrics runs.
var (
	transitionCounter   metric.Int64Counter     = noop.Int64Counter{}
	transitionHistogram metric.Float64Histogram = noop.Float64Histogram{}
	ignoredCounter      metric.Int64Counter     = noop.Int64Counter{}
	errorCounter        metric.Int64Counter     = noop.Int64Counter{}
	resultGauge         metric.Float64Gauge     = noop.Float64Gauge{}
)

// InitMetrics registers the calculator's OTel instruments on the global
// meter provider. Call it after observability.InitMetrics.
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	transitionCounter, err = meter.Int64Counter("calculator.transitions.total",
		metric.WithDescription("Total number of calculator state transitions applied"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return fmt.Errorf("creating transition counter: %w", err)
	}

	transitionHistogram, err = meter.Float64Histogram("calculator.transition.duration",
		metric.WithDescription("Duration of calculator state transitions in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return fmt.Errorf("creating transition histogram: %w", err)
	}

	ignoredCounter, err = meter.Int64Counter("calculator.inputs.ignored.total",
		metric.WithDescription("Key or button presses that map to no calculator action"),
		metric.WithUnit("{input}"),
	)
	if err != nil {
		return fmt.Errorf("creating ignored input counter: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of calculator request errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("The most recent finite result computed by the calculator"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	return nil
}
