package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/villageangel/pkg/router"
)

func tag(name string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", name)
			next.ServeHTTP(w, r)
		})
	}
}

func noop(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }

func TestNamedURL(t *testing.T) {
	r := router.New()
	r.Get("/products/{id}", "products.show", noop)

	url, err := r.URL("products.show", map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/products/42", url)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err, "unresolved placeholder must fail")

	_, err = r.URL("no.such.route", nil)
	assert.Error(t, err)
}

func TestGroupNesting(t *testing.T) {
	r := router.New()
	api := r.Group("/api/v1", tag("api"))
	admin := api.Group("admin", tag("admin"))
	admin.Post("/orders/{id}/approve", "admin.orders.approve", noop, tag("route"))

	path, ok := r.Path("admin.orders.approve")
	require.True(t, ok)
	assert.Equal(t, "/api/v1/admin/orders/{id}/approve", path)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/orders/7/approve", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"api", "admin", "route"}, rec.Header().Values("X-Chain"),
		"outer middleware runs first")
}

func TestPathNormalization(t *testing.T) {
	r := router.New()
	r.Group("/api//v1/").Get("me", "me", noop)

	path, ok := r.Path("me")
	require.True(t, ok)
	assert.Equal(t, "/api/v1/me", path)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRoutesListing(t *testing.T) {
	r := router.New()
	r.Get("/health", "health", noop)
	r.Group("/api").Delete("/carts/{id}", "carts.remove", noop)

	routes := r.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, router.RouteInfo{Method: http.MethodGet, Path: "/health", Name: "health"}, routes[0])
	assert.Equal(t, router.RouteInfo{Method: http.MethodDelete, Path: "/api/carts/{id}", Name: "carts.remove"}, routes[1])
}
