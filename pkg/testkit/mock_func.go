package testkit

import (
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"
)

// FuncMocker intercepts a non-HTTP side effect named in a scenario's
// mock steps (mail, SMS, notifications).
type FuncMocker interface {
	// Intercept receives the step's decoded ReturnData.Body.
	Intercept(raw []byte) error

	// Reset clears history between scenarios.
	Reset()

	// Calls is the number of Intercepts since the last Reset.
	Calls() int

	// Mock exposes the testify mock for custom expectations:
	//
	//	m := testkit.NewFuncMocker("sendmail")
	//	m.Mock().On("Intercept", mock.Anything).Return(nil)
	//	testkit.RegisterMocker("sendmail", m)
	Mock() *mock.Mock
}

// funcMocker is the testify-backed default implementation.
type funcMocker struct {
	m     mock.Mock
	mu    sync.Mutex
	calls int
}

// NewFuncMocker builds a mocker that accepts every call and returns
// nil until given stricter expectations.
func NewFuncMocker(method string) *funcMocker {
	_ = method // names exist for the registry; the mock itself is anonymous
	fm := &funcMocker{}
	fm.m.On("Intercept", mock.AnythingOfType("[]uint8")).Return(nil)
	return fm
}

func (fm *funcMocker) Intercept(raw []byte) error {
	fm.mu.Lock()
	fm.calls++
	fm.mu.Unlock()

	args := fm.m.Called(raw)
	if args.Get(0) == nil {
		return nil
	}
	return args.Error(0)
}

func (fm *funcMocker) Reset() {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	fm.calls = 0
	fm.m.Calls = nil
	fm.m.ExpectedCalls = nil
	fm.m.On("Intercept", mock.AnythingOfType("[]uint8")).Return(nil)
}

func (fm *funcMocker) Calls() int {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	return fm.calls
}

func (fm *funcMocker) Mock() *mock.Mock { return &fm.m }

var (
	registryMu sync.RWMutex
	registry   = map[string]FuncMocker{
		"sendmail":     NewFuncMocker("sendmail"),
		"sms":          NewFuncMocker("sms"),
		"notification": NewFuncMocker("notification"),
	}
)

// RegisterMocker installs (or replaces) the mocker for a method name.
func RegisterMocker(method string, m FuncMocker) {
	registryMu.Lock()
	registry[method] = m
	registryMu.Unlock()
}

// GetMocker returns the mocker for a method name, nil when absent.
func GetMocker(method string) FuncMocker {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[method]
}

func resetAllMockers() {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, m := range registry {
		m.Reset()
	}
}

// ActivateFuncMocks fires Intercept for every non-HTTP isMock step.
func ActivateFuncMocks(s *Scenario) error {
	for i, step := range s.NetUtilMockStep {
		if step.Method == "httprequest" || !step.IsMock {
			continue
		}

		m := GetMocker(step.Method)
		if m == nil {
			if s.IsMockRequired {
				return fmt.Errorf("no mocker registered for %q (step %d)", step.Method, i)
			}
			continue
		}

		raw, err := decodeMockBody(step.ReturnData.Body)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if err := m.Intercept(raw); err != nil {
			return fmt.Errorf("step %d intercept: %w", i, err)
		}
	}
	return nil
}

// AssertFuncMocksCalled reports isMock steps whose mocker never fired.
func AssertFuncMocksCalled(s *Scenario) []error {
	var errs []error
	seen := map[string]bool{}

	for _, step := range s.NetUtilMockStep {
		if step.Method == "httprequest" || !step.IsMock || seen[step.Method] {
			continue
		}
		seen[step.Method] = true

		if m := GetMocker(step.Method); m != nil && m.Calls() == 0 {
			errs = append(errs, fmt.Errorf("mock %q was never called in scenario %q", step.Method, s.Name))
		}
	}
	return errs
}

// decodeMockBody accepts padded or raw base64.
func decodeMockBody(b string) ([]byte, error) {
	if b == "" {
		return nil, nil
	}
	raw, err := base64.StdEncoding.DecodeString(b)
	if err == nil {
		return raw, nil
	}
	raw, rawErr := base64.RawStdEncoding.DecodeString(b)
	if rawErr != nil {
		return nil, fmt.Errorf("base64 decode mock body: %w", err)
	}
	return raw, nil
}
