// Package router wraps chi with named routes and nestable groups.
// Names feed URL(), which the route listing and clients use to build
// paths without hard-coding them.
package router

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

type Middleware func(http.Handler) http.Handler

// RouteInfo describes one mounted route, used by route listings.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

type Router struct {
	mux chi.Router

	mu    sync.RWMutex
	named map[string]string
	table []RouteInfo
}

// Group scopes a path prefix and a middleware chain. Groups nest;
// a child inherits and extends the parent's prefix and chain.
type Group struct {
	router *Router
	prefix string
	mw     []Middleware
}

func New() *Router {
	return &Router{
		mux:   chi.NewRouter(),
		named: make(map[string]string),
	}
}

func (r *Router) Handler() http.Handler { return r.mux }

// Use adds global middleware. Must run before any route is mounted,
// per chi's rules.
func (r *Router) Use(middlewares ...Middleware) {
	for _, mw := range middlewares {
		r.mux.Use(mw)
	}
}

func (r *Router) Group(prefix string, middlewares ...Middleware) *Group {
	return r.root().Group(prefix, middlewares...)
}

// root is the implicit "/" group the Router's own verb methods go
// through, so registration has a single code path.
func (r *Router) root() *Group {
	return &Group{router: r, prefix: "/"}
}

func (r *Router) Get(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.root().Get(path, name, handler, middlewares...)
}

func (r *Router) Post(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.root().Post(path, name, handler, middlewares...)
}

func (r *Router) Put(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.root().Put(path, name, handler, middlewares...)
}

func (r *Router) Patch(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.root().Patch(path, name, handler, middlewares...)
}

func (r *Router) Delete(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.root().Delete(path, name, handler, middlewares...)
}

// HandleFunc mounts a handler for all methods under path (websocket
// upgrades, SSE streams, mounted sub-handlers like /metrics).
func (r *Router) HandleFunc(path string, handler http.HandlerFunc) {
	r.mux.HandleFunc(joinPath(path), handler)
}

// Routes returns every route mounted so far, in mount order.
func (r *Router) Routes() []RouteInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]RouteInfo(nil), r.table...)
}

func (r *Router) Path(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	path, ok := r.named[name]
	return path, ok
}

// URL resolves a named route, substituting {param} placeholders from
// params. Every placeholder must be supplied.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	path, ok := r.Path(name)
	if !ok {
		return "", fmt.Errorf("route %q not found", name)
	}
	for key, value := range params {
		path = strings.ReplaceAll(path, "{"+key+"}", value)
	}
	if strings.Contains(path, "{") {
		return "", fmt.Errorf("missing parameters for route %q", name)
	}
	return path, nil
}

// register is the single place a route enters the mux and the tables.
func (r *Router) register(method, path, name string, h http.Handler) {
	r.mux.Method(method, path, h)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.table = append(r.table, RouteInfo{Method: method, Path: path, Name: name})
	if name != "" {
		r.named[name] = path
	}
}

func (g *Group) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router: g.router,
		prefix: joinPath(g.prefix, prefix),
		mw:     concat(g.mw, middlewares),
	}
}

func (g *Group) Get(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodGet, path, name, handler, middlewares)
}

func (g *Group) Post(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodPost, path, name, handler, middlewares)
}

func (g *Group) Put(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodPut, path, name, handler, middlewares)
}

func (g *Group) Patch(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodPatch, path, name, handler, middlewares)
}

func (g *Group) Delete(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodDelete, path, name, handler, middlewares)
}

func (g *Group) mount(method, path, name string, handler http.HandlerFunc, extra []Middleware) {
	var h http.Handler = handler
	chain := concat(g.mw, extra)
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	g.router.register(method, joinPath(g.prefix, path), name, h)
}

func concat(a, b []Middleware) []Middleware {
	out := make([]Middleware, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// joinPath glues path fragments into a clean absolute path. Empty and
// "/" fragments collapse; the result always starts with "/".
func joinPath(parts ...string) string {
	var segments []string
	for _, part := range parts {
		for _, seg := range strings.Split(part, "/") {
			if seg != "" {
				segments = append(segments, seg)
			}
		}
	}
	if len(segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(segments, "/")
}
