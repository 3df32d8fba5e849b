package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/villageangel/pkg/response"
	"github.com/shashiranjanraj/villageangel/pkg/token"
)

// RefreshHeader carries the refresh token when the access token is absent.
// The same token may arrive as a "refreshToken" cookie instead.
const RefreshHeader = "X-Refresh-Token"

// NewAccessHeader is set on the response when the middleware silently minted
// a fresh access token from a refresh token. Clients swap it in.
const NewAccessHeader = "X-New-Access-Token"

type claimsKey struct{}

// UserLookup confirms a user still exists and returns its current identity.
// Injected by the route layer so this package stays free of the ORM.
type UserLookup func(id uint) (email, role string, ok bool)

// Auth gates a route on a valid credential.
//
// Order of preference per request:
//  1. Bearer access token — verified, then the user is re-fetched so a
//     deleted account is cut off even inside the token's window.
//  2. Refresh token (header or cookie) when no access token was sent — the
//     middleware synthesises a transient access token, returns it via
//     X-New-Access-Token, and lets the request through on the refresh
//     claims alone.
//
// Neither present, or the presented token fails verification: 401.
func Auth(lookup UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			access := bearerToken(r)
			refresh := refreshToken(r)

			if access == "" && refresh != "" {
				claims, err := token.ValidateRefresh(refresh)
				if err != nil {
					response.Fail(w, "Invalid refresh token", http.StatusUnauthorized)
					return
				}

				minted, err := token.GenerateAccess(claims.UserID, claims.Email, claims.Role)
				if err != nil {
					response.Fail(w, "Authentication failed", http.StatusInternalServerError)
					return
				}

				w.Header().Set(NewAccessHeader, minted)
				next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
				return
			}

			if access == "" {
				response.Fail(w, "No access token provided", http.StatusUnauthorized)
				return
			}

			claims, err := token.ValidateAccess(access)
			if err != nil {
				response.Fail(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			if lookup != nil {
				email, role, ok := lookup(claims.UserID)
				if !ok {
					response.Fail(w, "User not found", http.StatusUnauthorized)
					return
				}
				claims.Email = email
				claims.Role = role
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth attaches identity when a valid bearer token is present and
// stays silent otherwise. Never rejects.
func OptionalAuth(lookup UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if access := bearerToken(r); access != "" {
				if claims, err := token.ValidateAccess(access); err == nil {
					if lookup != nil {
						if email, role, ok := lookup(claims.UserID); ok {
							claims.Email = email
							claims.Role = role
							r = r.WithContext(withClaims(r.Context(), claims))
						}
					} else {
						r = r.WithContext(withClaims(r.Context(), claims))
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func refreshToken(r *http.Request) string {
	if t := r.Header.Get(RefreshHeader); t != "" {
		return t
	}
	if c, err := r.Cookie("refreshToken"); err == nil {
		return c.Value
	}
	return ""
}

func withClaims(ctx context.Context, c *token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromCtx returns the authenticated caller's claims, if any.
func ClaimsFromCtx(r *http.Request) (*token.Claims, bool) {
	c, ok := r.Context().Value(claimsKey{}).(*token.Claims)
	return c, ok
}

// UserIDFromCtx returns the authenticated caller's user ID.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	if c, ok := ClaimsFromCtx(r); ok {
		return c.UserID, true
	}
	return 0, false
}

// RoleFromCtx returns the authenticated caller's role.
func RoleFromCtx(r *http.Request) (string, bool) {
	if c, ok := ClaimsFromCtx(r); ok {
		return c.Role, true
	}
	return "", false
}
