// Package middleware carries the correlation ID that ties a request's log
// lines, embed events and responses together.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type contextKey struct{}

var correlationKey contextKey

const correlationHeader = "X-Correlation-ID"

// CorrelationID tags each request with the caller's correlation ID, minting
// one when the header is absent, and logs the round trip.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(correlationHeader)
		if id == "" {
			id = uuid.New().String()
		}

		ctx := WithCorrelationID(r.Context(), id)
		w.Header().Set(correlationHeader, id)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		slog.InfoContext(ctx, "request handled",
			"method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// CorrelationFromContext reports the correlation ID and whether one is set.
func CorrelationFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationKey).(string)
	return id, ok && id != ""
}

// GetCorrelationID returns the correlation ID, or "unknown" outside a tagged
// context. Response envelopes always carry a value.
func GetCorrelationID(ctx context.Context) string {
	if id, ok := CorrelationFromContext(ctx); ok {
		return id
	}
	return "unknown"
}

// WithCorrelationID tags a context directly, for work that enters outside an
// HTTP request (queue consumers, crawl runs).
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey, id)
}
