package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	vahttp "github.com/shashiranjanraj/villageangel/pkg/http"
)

// Run executes one scenario file against handler as a named subtest.
func Run(t *testing.T, handler http.Handler, path string) {
	t.Helper()

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("testkit: %v", err)
	}
	t.Run(s.Name, func(t *testing.T) {
		execute(t, handler, s)
	})
}

// RunDir runs every *.json in dir as a subtest. Files that fail to
// parse are test failures, not fatal, so one broken fixture doesn't
// hide the rest.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(paths) == 0 {
		t.Fatalf("testkit: no scenario files in %q", dir)
	}

	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			t.Errorf("testkit: %v", err)
			continue
		}
		t.Run(s.Name, func(t *testing.T) {
			execute(t, handler, s)
		})
	}
}

// execute fires the scenario: install mocks, send the request through
// httptest, assert status and body, verify every mock was hit, reset.
func execute(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	var body io.Reader
	if p := s.RequestBodyPath(); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("[%s] request body %q: %v", s.Name, p, err)
		}
		body = bytes.NewReader(data)
	}

	mt := NewMockTransport(s)
	prev := vahttp.DefaultClient.Transport
	vahttp.DefaultClient.Transport = mt
	defer func() { vahttp.DefaultClient.Transport = prev }()

	resetAllMockers()
	defer resetAllMockers()
	if err := ActivateFuncMocks(s); err != nil {
		t.Fatalf("[%s] %v", s.Name, err)
	}

	req := httptest.NewRequest(strings.ToUpper(s.RequestMethod), s.RequestURL, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code)

	if p := s.ResponseBodyPath(); p != "" {
		expected, err := os.ReadFile(p)
		if err != nil {
			t.Errorf("[%s] expected body %q: %v", s.Name, p, err)
		} else {
			AssertJSONBody(t, s, expected, rec.Body.Bytes())
		}
	}

	AssertMocksAllCalled(t, s, mt)
}
