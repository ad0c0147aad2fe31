package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/typedflow/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter installs a global meter provider exporting over OTLP/HTTP.
// The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))
	return mp, nil
}

// Meter returns the typedflow meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the instruments recorded by stages, pipeline runs, store
// calls and HTTP requests. A nil *Metrics records nothing.
type Metrics struct {
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
	operationActive   metric.Int64UpDownCounter
	pipelineInputs    metric.Int64Counter
	errorTotal        metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	operationTotal, err := meter.Int64Counter("typedflow.operation.total",
		metric.WithDescription("Completed operations by kind, name and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating operation.total counter: %w", err)
	}

	operationDuration, err := meter.Float64Histogram("typedflow.operation.duration",
		metric.WithDescription("Duration of operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating operation.duration histogram: %w", err)
	}

	operationActive, err := meter.Int64UpDownCounter("typedflow.operation.active",
		metric.WithDescription("Operations currently in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating operation.active counter: %w", err)
	}

	pipelineInputs, err := meter.Int64Counter("typedflow.pipeline.inputs",
		metric.WithDescription("Inputs processed by pipeline runs, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.inputs counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("typedflow.error.total",
		metric.WithDescription("Errors by code and kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error.total counter: %w", err)
	}

	return &Metrics{
		operationTotal:    operationTotal,
		operationDuration: operationDuration,
		operationActive:   operationActive,
		pipelineInputs:    pipelineInputs,
		errorTotal:        errorTotal,
	}, nil
}

// NewDefaultMetrics creates instruments on the global typedflow meter.
func NewDefaultMetrics() (*Metrics, error) {
	return NewMetrics(Meter())
}

// RecordStart increments the in-flight count for kind.
func (m *Metrics) RecordStart(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.operationActive.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordEnd decrements the in-flight count and records a completed operation.
func (m *Metrics) RecordEnd(ctx context.Context, kind, name, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operationActive.Add(ctx, -1, metric.WithAttributes(attribute.String("kind", kind)))
	m.operationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("name", name),
		attribute.String("status", status),
	))
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("name", name),
	))
}

// RecordInputs records the outcome of a pipeline run.
func (m *Metrics) RecordInputs(ctx context.Context, pipeline string, succeeded, failed int) {
	if m == nil {
		return
	}
	m.pipelineInputs.Add(ctx, int64(succeeded), metric.WithAttributes(
		attribute.String("pipeline", pipeline), attribute.String("outcome", "success"),
	))
	m.pipelineInputs.Add(ctx, int64(failed), metric.WithAttributes(
		attribute.String("pipeline", pipeline), attribute.String("outcome", "failure"),
	))
}

// RecordError records an error by code and kind.
func (m *Metrics) RecordError(ctx context.Context, code, kind string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("kind", kind),
	))
}
