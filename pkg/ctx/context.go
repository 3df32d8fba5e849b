// Package ctx wraps a request/response pair in a single handler argument.
//
//	r.HandleFunc("/healthz", ctx.Wrap(func(c *ctx.Context) {
//	    c.JSON(http.StatusOK, map[string]interface{}{"status": "ok"})
//	}))
//
// Responses written through the helpers use the same envelopes as
// pkg/response, so handlers built on either style look identical on the
// wire.
package ctx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/villageangel/pkg/bind"
	"github.com/shashiranjanraj/villageangel/pkg/httperr"
	"github.com/shashiranjanraj/villageangel/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Context carries one request/response pair plus a per-request store.
type Context struct {
	W http.ResponseWriter
	R *http.Request

	mu    sync.RWMutex
	store map[string]interface{}
}

var pool = sync.Pool{
	New: func() interface{} { return &Context{store: make(map[string]interface{})} },
}

// Wrap adapts a HandlerFunc to http.HandlerFunc. Contexts are pooled;
// handlers must not retain c past their return.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := pool.Get().(*Context)
		c.W, c.R = w, r
		for k := range c.store {
			delete(c.store, k)
		}

		h(c)

		c.W, c.R = nil, nil
		pool.Put(c)
	}
}

// Param returns a chi URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// Query returns a query-string value, or def when absent.
func (c *Context) Query(key, def string) string {
	if v := c.R.URL.Query().Get(key); v != "" {
		return v
	}
	return def
}

// QueryUint parses a query-string value as an unsigned id, 0 when absent
// or malformed.
func (c *Context) QueryUint(key string) uint {
	n, _ := strconv.ParseUint(c.R.URL.Query().Get(key), 10, 64)
	return uint(n)
}

// Header returns a request header value.
func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// Cookie returns the value of a named request cookie.
func (c *Context) Cookie(name string) (string, error) {
	cookie, err := c.R.Cookie(name)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// ClientIP returns the originating client address, preferring proxy
// headers over RemoteAddr.
func (c *Context) ClientIP() string {
	if fwd := c.R.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if real := c.R.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	host := c.R.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return host
}

// Context returns the request's context.Context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Set stores a per-request value, e.g. middleware handing data to the
// handler.
func (c *Context) Set(key string, val interface{}) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

// Get retrieves a per-request value.
func (c *Context) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

// GetUint returns a uint from the store, 0 when absent or mistyped.
func (c *Context) GetUint(key string) uint {
	v, _ := c.Get(key)
	u, _ := v.(uint)
	return u
}

// Bind decodes the JSON body into dest and validates it. On failure the
// response is already written and Bind returns false.
func (c *Context) Bind(dest interface{}) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		response.Fail(c.W, err.Error(), http.StatusBadRequest)
		return false
	}
	if len(errs) > 0 {
		response.ValidationError(c.W, errs)
		return false
	}
	return true
}

// SetHeader sets a response header.
func (c *Context) SetHeader(key, value string) {
	c.W.Header().Set(key, value)
}

// JSON writes v with the given status.
func (c *Context) JSON(status int, v interface{}) {
	c.W.Header().Set("Content-Type", "application/json")
	c.W.WriteHeader(status)
	json.NewEncoder(c.W).Encode(v) //nolint:errcheck
}

// Success writes the standard success envelope.
func (c *Context) Success(message string, extra response.Payload) {
	response.Success(c.W, message, extra)
}

// Error writes the flat error envelope for err.
func (c *Context) Error(err error) {
	response.Error(c.W, err)
}

// Fail writes the flat error envelope for message/status.
func (c *Context) Fail(message string, status int) {
	response.Fail(c.W, message, status)
}

// NotFound is shorthand for a 404 failure.
func (c *Context) NotFound(message string) {
	c.Error(httperr.NotFound(message))
}
