// Package middleware holds the HTTP middleware chain: trace IDs and JWT
// authentication.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/lingueefy/review-engine/internal/api/shared"
)

// Trace attaches a trace ID to every request's context. Apply it first so
// all later handlers and logs can correlate on the ID.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())

		slog.DebugContext(ctx, "request started",
			slog.String("trace_id", shared.GetTraceID(ctx)),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
