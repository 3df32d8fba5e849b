package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shashiranjanraj/villageangel/client"
)

// stubAuthServer answers login and refresh with a long-lived fake pair.
func stubAuthServer(t *testing.T) *httptest.Server {
	t.Helper()

	access := fakeJWT(t, time.Now().Add(time.Hour))
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]interface{}{
			"success":      true,
			"accessToken":  access,
			"refreshToken": "refresh-1",
			"user":         map[string]interface{}{"id": 1, "email": "a@b.c", "role": "USER"},
		})
	})
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Refresh-Token") != "refresh-1" {
			writeJSON(w, 401, map[string]interface{}{"message": "Invalid refresh token", "statusCode": 401})
			return
		}
		writeJSON(w, 200, map[string]interface{}{"success": true, "accessToken": access})
	})
	mux.HandleFunc("/api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]interface{}{"success": true})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSessionPersistAndRestore(t *testing.T) {
	srv := stubAuthServer(t)
	path := filepath.Join(t.TempDir(), "session")
	opts := client.SessionOptions{PersistPath: path, Remember: true}

	first := client.NewSession(client.New(srv.URL), opts)
	if _, err := first.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("session file not written: %v", err)
	}
	// The pair is encrypted at rest; the raw refresh token must not appear.
	if len(raw) == 0 || strings.Contains(string(raw), "refresh-1") {
		t.Error("session file holds the token in the clear")
	}

	second := client.NewSession(client.New(srv.URL), opts)
	if !second.Restore(context.Background()) {
		t.Fatal("restore failed")
	}
	if second.State() != client.StateAuthenticated {
		t.Errorf("state = %q, want AUTHENTICATED", second.State())
	}
}

func TestSessionRestorePurgesWhenNotRemembered(t *testing.T) {
	srv := stubAuthServer(t)
	path := filepath.Join(t.TempDir(), "session")

	remembered := client.NewSession(client.New(srv.URL), client.SessionOptions{PersistPath: path, Remember: true})
	if _, err := remembered.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("session file not written: %v", err)
	}

	// Remember was switched off since the last run: the leftover file must
	// not resurrect the session.
	s := client.NewSession(client.New(srv.URL), client.SessionOptions{PersistPath: path, Remember: false})
	if s.Restore(context.Background()) {
		t.Fatal("restore succeeded with Remember off")
	}
	if s.State() != client.StateAnonymous {
		t.Errorf("state = %q, want ANONYMOUS", s.State())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("stale session file survived")
	}
}

func TestSessionRestoreWithoutFile(t *testing.T) {
	opts := client.SessionOptions{PersistPath: filepath.Join(t.TempDir(), "missing"), Remember: true}
	s := client.NewSession(client.New("http://localhost:0"), opts)

	if s.Restore(context.Background()) {
		t.Fatal("restore succeeded with nothing stored")
	}
	if s.State() != client.StateAnonymous {
		t.Errorf("state = %q, want ANONYMOUS", s.State())
	}
}

func TestSessionRestoreDiscardsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	if err := os.WriteFile(path, []byte("not-encrypted-data"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	opts := client.SessionOptions{PersistPath: path, Remember: true}
	s := client.NewSession(client.New("http://localhost:0"), opts)

	if s.Restore(context.Background()) {
		t.Fatal("restore accepted a corrupt file")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt session file not removed")
	}
}

func TestSessionLogoutRemovesFile(t *testing.T) {
	srv := stubAuthServer(t)
	path := filepath.Join(t.TempDir(), "session")
	opts := client.SessionOptions{PersistPath: path, Remember: true}

	s := client.NewSession(client.New(srv.URL), opts)
	if _, err := s.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	s.Logout(context.Background())

	if s.State() != client.StateAnonymous {
		t.Errorf("state = %q, want ANONYMOUS", s.State())
	}
	if s.User() != nil {
		t.Error("user survived logout")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("session file survived logout")
	}
}

func TestSessionLoginFailureStaysAnonymous(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 400, map[string]interface{}{"message": "Invalid Password", "statusCode": 400})
	}))
	defer srv.Close()

	s := client.NewSession(client.New(srv.URL), client.SessionOptions{})
	if _, err := s.Login(context.Background(), "a@b.c", "wrong"); err == nil {
		t.Fatal("expected login error")
	}
	if s.State() != client.StateAnonymous {
		t.Errorf("state = %q, want ANONYMOUS", s.State())
	}
}
