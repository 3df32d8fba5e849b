// Package middleware provides the HTTP middleware stack.
package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/villageangel/pkg/response"
)

// limiter is a fixed-window counter per client IP. Windows that lapse
// are swept periodically so the map tracks only recent callers.
type limiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	windows map[string]*clientWindow
}

type clientWindow struct {
	count   int
	resetAt time.Time
}

func newLimiter(max int, window time.Duration) *limiter {
	l := &limiter{max: max, window: window, windows: map[string]*clientWindow{}}
	go l.sweep()
	return l
}

func (l *limiter) allow(ip string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	cw, ok := l.windows[ip]
	if !ok || now.After(cw.resetAt) {
		l.windows[ip] = &clientWindow{count: 1, resetAt: now.Add(l.window)}
		return true
	}
	cw.count++
	return cw.count <= l.max
}

func (l *limiter) sweep() {
	tick := time.NewTicker(time.Minute)
	defer tick.Stop()
	for now := range tick.C {
		l.mu.Lock()
		for ip, cw := range l.windows {
			if now.After(cw.resetAt) {
				delete(l.windows, ip)
			}
		}
		l.mu.Unlock()
	}
}

// clientAddr picks the first X-Forwarded-For hop when a proxy set one,
// falling back to the socket address.
func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	return r.RemoteAddr
}

// RateLimit caps each IP at max requests per window, answering 429
// beyond it.
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	l := newLimiter(max, window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientAddr(r)) {
				response.Fail(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
