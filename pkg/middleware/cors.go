package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSOptions configures the CORS middleware.
type CORSOptions struct {
	AllowedOrigins   []string // e.g. ["https://shop.example.com"], or ["*"]
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string // headers the browser may read, e.g. X-New-Access-Token
	AllowCredentials bool     // required for the refresh-token cookie
	MaxAge           int      // seconds for preflight cache
}

// DefaultCORSOptions returns options tuned for the storefront frontend:
// a single configured origin with credentials, exposing the header the auth
// middleware uses to hand back silently-minted access tokens.
func DefaultCORSOptions(origin string) CORSOptions {
	return CORSOptions{
		AllowedOrigins:   []string{origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", RefreshHeader},
		ExposedHeaders:   []string{NewAccessHeader, "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

func (o CORSOptions) match(origin string) (string, bool) {
	for _, allowed := range o.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return allowed, true
		}
	}
	return "", false
}

// CORS answers preflights and stamps the allow headers on matched
// origins. Credentials are never combined with a wildcard origin.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	stamp := func(h http.Header, origin string) {
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", strings.Join(opts.AllowedMethods, ", "))
		h.Set("Access-Control-Allow-Headers", strings.Join(opts.AllowedHeaders, ", "))
		if len(opts.ExposedHeaders) > 0 {
			h.Set("Access-Control-Expose-Headers", strings.Join(opts.ExposedHeaders, ", "))
		}
		if opts.AllowCredentials && origin != "*" {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		if opts.MaxAge > 0 {
			h.Set("Access-Control-Max-Age", strconv.Itoa(opts.MaxAge))
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin, ok := opts.match(r.Header.Get("Origin")); ok {
				stamp(w.Header(), origin)
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
