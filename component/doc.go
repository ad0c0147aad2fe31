// Package component defines the lifecycle interface shared by the store
// backends, the HTTP server and the telemetry exporters, and a Registry
// that starts them in registration order and stops them in reverse.
package component
