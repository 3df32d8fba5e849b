// Package testkit drives handler tests from JSON scenario files. A
// scenario names the request to fire, the status to expect, optional
// request/response body files, and mock steps for outgoing side
// effects (HTTP calls, mail sends).
//
// Scenario files live in testdata/ next to the test:
//
//	func TestAPI(t *testing.T) {
//	    handler := kernel.NewHandler()
//	    testkit.RunDir(t, handler, "testdata")
//	}
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Scenario is one request/assertion pair loaded from a JSON file.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RequestMethod   string            `json:"requestMethod"`
	RequestURL      string            `json:"requestUrl"`
	RequestFileName string            `json:"requestFileName"` // body file, relative to the scenario dir
	Headers         map[string]string `json:"headers"`

	ExpectedCode     int    `json:"expectedCode"`
	ResponseFileName string `json:"responseFileName"` // expected body file; empty skips the body assertion

	// IsMockRequired fails the scenario when an outgoing call has no
	// matching mock step.
	IsMockRequired bool `json:"isMockRequired"`

	NetUtilMockStep []MockStep `json:"netUtilMockStep"`

	dir string // scenario file's directory, set at load time
}

// MockStep intercepts one outgoing side effect.
//
// Method "httprequest" covers pkg/http calls; "sendmail", "sms" and
// any registered FuncMocker name cover function-level effects.
type MockStep struct {
	Method string `json:"method"`

	// IsMock enables interception; false documents a real dependency.
	IsMock bool `json:"isMock"`

	// MatchURL prefix-matches outgoing request URLs for "httprequest"
	// steps. Empty matches everything.
	MatchURL string `json:"matchUrl"`

	ReturnData MockReturnData `json:"returnData"`
}

// MockReturnData is the synthetic result a mock step produces. Body is
// base64 so binary payloads survive the JSON file.
type MockReturnData struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// LoadScenario reads and validates one scenario file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: scenario %q: %w", abs, err)
	}

	s.dir = filepath.Dir(abs)
	return &s, nil
}

func (s *Scenario) validate() error {
	switch {
	case s.Name == "":
		return fmt.Errorf("name is required")
	case s.RequestURL == "":
		return fmt.Errorf("requestUrl is required")
	case s.ExpectedCode == 0:
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	for i, step := range s.NetUtilMockStep {
		if step.Method == "" {
			return fmt.Errorf("netUtilMockStep[%d].method is required", i)
		}
	}
	return nil
}

// RequestBodyPath resolves RequestFileName against the scenario dir;
// "" when the scenario carries no body.
func (s *Scenario) RequestBodyPath() string {
	return s.resolve(s.RequestFileName)
}

// ResponseBodyPath resolves ResponseFileName against the scenario dir.
func (s *Scenario) ResponseBodyPath() string {
	return s.resolve(s.ResponseFileName)
}

func (s *Scenario) resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// DumpScenario prints a loaded scenario; handy while writing new
// fixture files.
func DumpScenario(s *Scenario) {
	fmt.Printf("Scenario: %s\n", s.Name)
	fmt.Printf("  %s %s → %d\n", s.RequestMethod, s.RequestURL, s.ExpectedCode)
	fmt.Printf("  requestFile=%q responseFile=%q mockRequired=%v\n",
		s.RequestFileName, s.ResponseFileName, s.IsMockRequired)
	for i, step := range s.NetUtilMockStep {
		fmt.Printf("  step[%d]: %s isMock=%v matchUrl=%q\n", i, step.Method, step.IsMock, step.MatchURL)
	}
}
