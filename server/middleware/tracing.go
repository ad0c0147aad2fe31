package middleware

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/typedflow/errors"
	"github.com/kbukum/typedflow/observability"
)

// Tracing wraps each request in an http.request span and records request
// metrics. Responses with status >= 500 end the operation as failed.
// metrics may be nil.
func Tracing(metrics *observability.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := r.Method + " " + r.URL.Path
			ctx, op := observability.StartOperation(r.Context(), metrics,
				observability.SpanHTTPRequest, observability.KindRequest, name,
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			)
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r.WithContext(ctx))

			op.Span().SetAttributes(attribute.Int("http.status_code", sw.status))
			var err error
			if sw.status >= 500 {
				err = errors.New(errors.ErrCodeInternal, fmt.Sprintf("status %d", sw.status), sw.status)
			}
			op.End(ctx, err)
		})
	}
}
