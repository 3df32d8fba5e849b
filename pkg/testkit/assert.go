package testkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks the recorded status against the scenario.
func AssertStatusCode(t *testing.T, s *Scenario, got int) {
	t.Helper()
	assert.Equal(t, s.ExpectedCode, got, "[%s] status code", s.Name)
}

// AssertJSONBody compares two JSON documents structurally, so key
// order and whitespace never matter. testify prints the field diff.
func AssertJSONBody(t *testing.T, s *Scenario, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	var want, got interface{}
	require.NoError(t, json.Unmarshal(expected, &want),
		"[%s] expected-body fixture is not valid JSON", s.Name)
	if !assert.NoError(t, json.Unmarshal(actual, &got),
		"[%s] response is not valid JSON: %s", s.Name, actual) {
		return
	}

	assert.Equal(t, want, got, "[%s] response body", s.Name)
}

// AssertMocksAllCalled fails when any isMock step never fired.
func AssertMocksAllCalled(t *testing.T, s *Scenario, mt *MockTransport) {
	t.Helper()

	for _, err := range mt.AssertAllCalled() {
		assert.NoError(t, err, "[%s]", s.Name)
	}
	for _, err := range AssertFuncMocksCalled(s) {
		assert.NoError(t, err, "[%s]", s.Name)
	}
}
