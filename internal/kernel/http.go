// Package kernel assembles the HTTP handler: the global middleware
// stack, the operational endpoints and the API routes.
package kernel

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/villageangel/app/routes"
	"github.com/shashiranjanraj/villageangel/config"
	"github.com/shashiranjanraj/villageangel/pkg/cache"
	"github.com/shashiranjanraj/villageangel/pkg/ctx"
	"github.com/shashiranjanraj/villageangel/pkg/database"
	"github.com/shashiranjanraj/villageangel/pkg/metrics"
	"github.com/shashiranjanraj/villageangel/pkg/middleware"
	"github.com/shashiranjanraj/villageangel/pkg/reqid"
	"github.com/shashiranjanraj/villageangel/pkg/router"
)

// NewHandler builds the full HTTP handler.
//
// Global middleware stack (outermost → innermost):
//  1. Prometheus metrics — outermost for accurate total latency
//  2. Recovery           — catches panics before they kill the goroutine
//  3. Request ID         — inject unique ID before anything logs
//  4. Logger             — logs request_id from context
//  5. CORS               — storefront origin with credentials
//  6. Rate limiter       — reject abusers early
func NewHandler() http.Handler {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSOrigin())))
	r.Use(middleware.RateLimit(200, time.Minute))

	// Operational endpoints — no auth, no rate limit concerns at this volume.
	r.HandleFunc("/metrics", metrics.Handler())
	r.HandleFunc("/healthz", ctx.Wrap(healthz))

	routes.RegisterAPI(r)

	return r.Handler()
}

// healthz reports process liveness plus dependency reachability.
func healthz(c *ctx.Context) {
	checks := map[string]bool{"redis": cache.Available()}

	dbOK := false
	if database.DB != nil {
		if sqlDB, err := database.DB.DB(); err == nil {
			dbOK = sqlDB.Ping() == nil
		}
	}
	checks["database"] = dbOK

	status := http.StatusOK
	if !dbOK {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, map[string]interface{}{"status": status, "checks": checks})
}
