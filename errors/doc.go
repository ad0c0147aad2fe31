// Package errors provides the structured error type shared by stores,
// processors and the HTTP API. Every error carries a machine-readable code,
// an HTTP status mapping and a retryable flag.
package errors
