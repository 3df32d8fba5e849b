package client_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shashiranjanraj/villageangel/client"
)

// fakeJWT builds an unsigned token carrying only an exp claim; the
// client never verifies signatures, it just schedules around expiry.
func fakeJWT(t *testing.T, exp time.Time) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]int64{"exp": exp.Unix()})
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func jsonDecode(r *http.Request, out interface{}) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func TestAccessExpiry(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)

	c := client.New("http://localhost:0")
	c.SetTokens(fakeJWT(t, exp), "refresh")

	got, ok := c.AccessExpiry()
	if !ok {
		t.Fatal("expiry not found")
	}
	if !got.Equal(exp) {
		t.Errorf("expiry = %v, want %v", got, exp)
	}
}

func TestAccessExpiryRejectsGarbage(t *testing.T) {
	c := client.New("http://localhost:0")

	for _, tok := range []string{"", "not-a-jwt", "a.b", "a.!!!.c"} {
		c.SetTokens(tok, "")
		if _, ok := c.AccessExpiry(); ok {
			t.Errorf("expiry parsed from %q", tok)
		}
	}
}

func TestAPIErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 404, map[string]interface{}{"message": "Order not found", "statusCode": 404})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.MyOrders(context.Background())

	apiErr, ok := err.(*client.APIError)
	if !ok {
		t.Fatalf("error type = %T, want *client.APIError", err)
	}
	if apiErr.Message != "Order not found" || apiErr.StatusCode != 404 {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestLoginInstallsTokens(t *testing.T) {
	access := fakeJWT(t, time.Now().Add(15*time.Minute))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/login" {
			writeJSON(w, 404, map[string]interface{}{"message": "Not found", "statusCode": 404})
			return
		}
		writeJSON(w, 200, map[string]interface{}{
			"success":      true,
			"accessToken":  access,
			"refreshToken": "refresh-1",
			"user":         map[string]interface{}{"id": 1, "email": "a@b.c", "role": "USER"},
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	user, err := c.Login(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Email != "a@b.c" {
		t.Errorf("user = %+v", user)
	}

	gotAccess, gotRefresh := c.Tokens()
	if gotAccess != access || gotRefresh != "refresh-1" {
		t.Error("token pair not installed")
	}
}

func TestDoRefreshesOnceOn401(t *testing.T) {
	var refreshCalls int

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		if r.Header.Get("X-Refresh-Token") != "refresh-1" {
			writeJSON(w, 401, map[string]interface{}{"message": "Invalid refresh token", "statusCode": 401})
			return
		}
		writeJSON(w, 200, map[string]interface{}{"success": true, "accessToken": "fresh"})
	})
	mux.HandleFunc("/api/v1/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			writeJSON(w, 401, map[string]interface{}{"message": "Invalid or expired token", "statusCode": 401})
			return
		}
		writeJSON(w, 200, map[string]interface{}{"success": true, "orders": []interface{}{}})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := client.New(srv.URL)
	c.SetTokens("stale", "refresh-1")

	if _, err := c.MyOrders(context.Background()); err != nil {
		t.Fatalf("orders: %v", err)
	}
	if refreshCalls != 1 {
		t.Errorf("refresh called %d times, want 1", refreshCalls)
	}
	if access, _ := c.Tokens(); access != "fresh" {
		t.Errorf("access = %q, want refreshed token", access)
	}
}

func TestSecond401IsNotRetried(t *testing.T) {
	var orderCalls int

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]interface{}{"success": true, "accessToken": "still-bad"})
	})
	mux.HandleFunc("/api/v1/orders", func(w http.ResponseWriter, r *http.Request) {
		orderCalls++
		writeJSON(w, 401, map[string]interface{}{"message": "Invalid or expired token", "statusCode": 401})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := client.New(srv.URL)
	c.SetTokens("stale", "refresh-1")

	_, err := c.MyOrders(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if orderCalls != 2 {
		t.Errorf("order endpoint hit %d times, want exactly 2 (original + one retry)", orderCalls)
	}
}

func TestAdoptsMintedAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-New-Access-Token", "minted")
		writeJSON(w, 200, map[string]interface{}{"success": true, "orders": []interface{}{}})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	c.SetTokens("", "refresh-1")

	if _, err := c.MyOrders(context.Background()); err != nil {
		t.Fatalf("orders: %v", err)
	}

	access, refresh := c.Tokens()
	if access != "minted" || refresh != "refresh-1" {
		t.Errorf("tokens = (%q, %q), want minted access kept beside refresh", access, refresh)
	}
}

func TestOnTokensHookFires(t *testing.T) {
	var pairs [][2]string

	c := client.New("http://localhost:0")
	c.OnTokens = func(access, refresh string) {
		pairs = append(pairs, [2]string{access, refresh})
	}

	c.SetTokens("a1", "r1")
	c.ClearTokens()

	want := [][2]string{{"a1", "r1"}, {"", ""}}
	if len(pairs) != len(want) {
		t.Fatalf("hook fired %d times, want %d", len(pairs), len(want))
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Errorf("call %d = %v, want %v", i, pairs[i], want[i])
		}
	}
}
