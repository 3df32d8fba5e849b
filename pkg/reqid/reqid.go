// Package reqid assigns every request an ID and threads it through
// context, the X-Request-ID header, and (via the logger middleware)
// every structured log line.
package reqid

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

// Header carries the ID between services.
const Header = "X-Request-ID"

type ctxKey struct{}

// New returns a random 32-hex-char ID.
func New() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// WithValue stores id in ctx.
func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromCtx reads the ID back, empty when none was set.
func FromCtx(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Middleware adopts an upstream X-Request-ID when a proxy sent one
// (capped at 64 chars so a hostile header can't bloat the logs) and
// generates a fresh ID otherwise. The ID is echoed on the response.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if id == "" || len(id) > 64 {
				id = New()
			}

			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(WithValue(r.Context(), id)))
		})
	}
}
