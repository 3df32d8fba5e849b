package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shashiranjanraj/villageangel/client"
)

// authedSession signs a fake account with the given role into a fresh
// session backed by a stub server.
func authedSession(t *testing.T, role string) *client.Session {
	t.Helper()

	access := fakeJWT(t, time.Now().Add(time.Hour))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]interface{}{
			"success":      true,
			"accessToken":  access,
			"refreshToken": "refresh-1",
			"user":         map[string]interface{}{"id": 1, "email": "a@b.c", "role": role},
		})
	}))
	t.Cleanup(srv.Close)

	s := client.NewSession(client.New(srv.URL), client.SessionOptions{})
	if _, err := s.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return s
}

func TestGuardAnonymous(t *testing.T) {
	s := client.NewSession(client.New("http://localhost:0"), client.SessionOptions{})
	g := client.NewGuard(s)

	cases := []struct {
		required client.Access
		allow    bool
		redirect string
	}{
		{client.AccessPublic, true, ""},
		{client.AccessGuest, true, ""},
		{client.AccessUser, false, "/login"},
		{client.AccessAdmin, false, "/login"},
	}
	for _, tc := range cases {
		d := g.Check(tc.required)
		if d.Allow != tc.allow || d.RedirectTo != tc.redirect {
			t.Errorf("Check(%v) = %+v, want allow=%v redirect=%q", tc.required, d, tc.allow, tc.redirect)
		}
	}
}

func TestGuardSignedInUser(t *testing.T) {
	g := client.NewGuard(authedSession(t, "USER"))

	cases := []struct {
		required client.Access
		allow    bool
		redirect string
	}{
		{client.AccessPublic, true, ""},
		{client.AccessGuest, false, "/"},
		{client.AccessUser, true, ""},
		{client.AccessAdmin, false, "/"},
	}
	for _, tc := range cases {
		d := g.Check(tc.required)
		if d.Allow != tc.allow || d.RedirectTo != tc.redirect {
			t.Errorf("Check(%v) = %+v, want allow=%v redirect=%q", tc.required, d, tc.allow, tc.redirect)
		}
	}
}

func TestGuardAdmin(t *testing.T) {
	g := client.NewGuard(authedSession(t, "ADMIN"))

	for _, required := range []client.Access{client.AccessPublic, client.AccessUser, client.AccessAdmin} {
		if d := g.Check(required); !d.Allow {
			t.Errorf("Check(%v) = %+v, want allowed", required, d)
		}
	}
	if d := g.Check(client.AccessGuest); d.Allow || d.RedirectTo != "/" {
		t.Errorf("Check(guest) = %+v, want redirect home", d)
	}
}

func TestGuardCustomPaths(t *testing.T) {
	s := client.NewSession(client.New("http://localhost:0"), client.SessionOptions{})
	g := client.NewGuard(s)
	g.LoginPath = "/signin"

	if d := g.Check(client.AccessUser); d.RedirectTo != "/signin" {
		t.Errorf("redirect = %q, want /signin", d.RedirectTo)
	}
}

func TestGuardAfterLogout(t *testing.T) {
	s := authedSession(t, "USER")
	g := client.NewGuard(s)

	if d := g.Check(client.AccessUser); !d.Allow {
		t.Fatalf("signed-in user denied: %+v", d)
	}

	s.Logout(context.Background())

	if d := g.Check(client.AccessUser); d.Allow {
		t.Errorf("signed-out user allowed: %+v", d)
	}
	if d := g.Check(client.AccessGuest); !d.Allow {
		t.Errorf("guest page denied after logout: %+v", d)
	}
}
