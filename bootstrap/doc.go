// Package bootstrap runs a typedflow binary through a uniform lifecycle.
//
// An App owns the typed configuration, the logger and the component
// registry. Startup happens in phases:
//
//  1. Start every registered component (telemetry, store backends).
//  2. Run OnStart hooks.
//  3. Run OnConfigure callbacks. They may register more components, such as
//     the HTTP server once its routes are mounted; those are started next.
//  4. Check component health and run OnReady hooks.
//
// Run then blocks until SIGINT, SIGTERM or context cancellation, while
// RunTask executes a finite task. Both stop components in reverse order.
package bootstrap
