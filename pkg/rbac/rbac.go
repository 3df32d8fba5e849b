// Package rbac provides role allow-list middleware for authenticated routes.
package rbac

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/villageangel/pkg/middleware"
	"github.com/shashiranjanraj/villageangel/pkg/response"
)

// HasRole allows access only to callers whose role is in the list.
// Wire it after middleware.Auth so the role is in the request context.
// Missing identity is a 401; the wrong role is a 403 naming what would
// have been enough.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	required := strings.Join(roles, " or ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			switch {
			case !ok:
				response.Fail(w, "Access denied. Authentication required", http.StatusUnauthorized)
			case !contains(roles, role):
				response.Fail(w, "Access denied. Required role: "+required, http.StatusForbidden)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// Guest blocks authenticated callers (login and register endpoints).
func Guest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.UserIDFromCtx(r); ok {
			response.Fail(w, "Already authenticated", http.StatusConflict)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
