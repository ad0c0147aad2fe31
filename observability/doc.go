// Package observability wires OpenTelemetry tracing and metrics into
// pipeline stages, pipeline runs and HTTP requests, and aggregates
// component health.
//
// Exporters are installed by the telemetry Component:
//
//	tel := observability.NewComponent(cfg.Telemetry, "typedflow", version.Version, "production", log)
//	registry.Register(tel)
//
// Work is measured through Operation:
//
//	ctx, op := observability.StartOperation(ctx, metrics, observability.SpanStage, observability.KindStage, "double")
//	defer func() { op.End(ctx, err) }()
//
// Without an installed provider the global otel no-op implementations are
// used, so instrumentation costs little when telemetry is disabled.
package observability
