// Package processor defines single-value transformations over timestamped
// data and the middleware that wraps them.
//
// A Processor never returns a Go error or panics out: every outcome is a
// Result, and failures carry an *errors.AppError in Result.Err. The built-in
// processors are NewNumeric (doubling with checked arithmetic) and NewText
// (Unicode upper-casing). Middleware adds timeouts, retries, circuit
// breaking, logging and OpenTelemetry instrumentation:
//
//	p := processor.Compose(processor.NewNumeric[int](),
//		func(p processor.Processor[int]) processor.Processor[int] {
//			return processor.WithTimeout(p, time.Second)
//		},
//	)
//	r := p.Process(ctx, processor.NewData(10)) // r.Value == 20
package processor
