package middleware

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/kbukum/typedflow/errors"
)

// Middleware wraps an http.Handler. It runs in front of gin, so it sees
// every request the server receives.
type Middleware func(http.Handler) http.Handler

// Chain composes middleware. The first in the list is the outermost (runs
// first on a request and last on a response).
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// writeError renders appErr the same way gin handlers do.
func writeError(w http.ResponseWriter, appErr *errors.AppError) {
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	body, _ := json.Marshal(appErr.ToResponse())
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
