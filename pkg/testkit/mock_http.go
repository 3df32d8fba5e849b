package testkit

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockTransport answers outgoing pkg/http requests from a scenario's
// "httprequest" mock steps instead of the network. The runner swaps it
// onto vahttp.DefaultClient for the duration of each scenario.
type MockTransport struct {
	mu     sync.Mutex
	steps  []*transportStep
	strict bool
}

type transportStep struct {
	MockStep
	hits int
}

// NewMockTransport collects the scenario's httprequest steps. With
// IsMockRequired the transport errors on unmatched calls; otherwise it
// answers them with a generic 404.
func NewMockTransport(s *Scenario) *MockTransport {
	mt := &MockTransport{strict: s.IsMockRequired}
	for _, step := range s.NetUtilMockStep {
		if step.Method == "httprequest" {
			mt.steps = append(mt.steps, &transportStep{MockStep: step})
		}
	}
	return mt
}

// RoundTrip matches the request against the steps in order.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	for _, step := range mt.steps {
		if !step.IsMock {
			break // documented-real step: stop intercepting
		}
		if step.MatchURL != "" && !strings.HasPrefix(req.URL.String(), step.MatchURL) {
			continue
		}

		step.hits++
		return syntheticResponse(req, step.ReturnData)
	}

	if mt.strict {
		return nil, fmt.Errorf("testkit: unmocked outgoing call to %s", req.URL)
	}
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"message":"no mock configured"}`)),
		Request:    req,
	}, nil
}

// AssertAllCalled lists isMock steps that never matched a request.
func (mt *MockTransport) AssertAllCalled() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var errs []error
	for _, step := range mt.steps {
		if step.IsMock && step.hits == 0 {
			errs = append(errs, fmt.Errorf(
				"testkit: httprequest mock (matchUrl=%q) was never called", step.MatchURL))
		}
	}
	return errs
}

func syntheticResponse(req *http.Request, rd MockReturnData) (*http.Response, error) {
	code := rd.StatusCode
	if code == 0 {
		code = http.StatusOK
	}

	body, err := decodeMockBody(rd.Body)
	if err != nil {
		return nil, fmt.Errorf("testkit: %w", err)
	}

	return &http.Response{
		StatusCode: code,
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(body)),
		Request:    req,
	}, nil
}
