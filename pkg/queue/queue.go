// Package queue runs background jobs through a pluggable driver.
//
//	type WelcomeJob struct{ UserID uint }
//	func (j *WelcomeJob) Handle() error { ... }
//
//	func init() {
//	    queue.Register("*jobs.WelcomeJob", func() queue.Job { return &WelcomeJob{} })
//	}
//
//	queue.Dispatch(&WelcomeJob{UserID: 7})
//	queue.DispatchAfter(&WelcomeJob{UserID: 7}, time.Minute)
//
// The in-memory driver serves development and tests; SetDriver swaps in
// Redis for anything that must survive a deploy.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/villageangel/pkg/logger"
	"github.com/shashiranjanraj/villageangel/pkg/metrics"
)

// Job is a unit of background work. Jobs must round-trip through JSON,
// since that is how they cross the driver.
type Job interface {
	Handle() error
}

// Driver stores and hands out serialized jobs.
type Driver interface {
	Push(payload []byte) error
	// Pop blocks until a payload arrives, ctx cancels, or the driver's
	// poll interval elapses (returning nil, nil).
	Pop(ctx context.Context) ([]byte, error)
}

// DelayedDriver is implemented by drivers that can hold a job back
// until its due time. Others fall back to an in-process timer.
type DelayedDriver interface {
	PushDelayed(payload []byte, delay time.Duration) error
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type manager struct {
	mu        sync.RWMutex
	driver    Driver
	factories map[string]func() Job
	failed    []Failure
	attempts  int
	backoff   time.Duration
}

var std = &manager{
	driver:    NewMemoryDriver(),
	factories: map[string]func() Job{},
	attempts:  3,
	backoff:   time.Second,
}

// Register maps a wire type name to a factory so workers can rebuild
// the job. Call from init in the package defining the job.
func Register(name string, factory func() Job) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.factories[name] = factory
}

// SetDriver swaps the storage backend.
func SetDriver(d Driver) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.driver = d
}

// SetMaxRetry caps attempts per job, minimum 1.
func SetMaxRetry(n int) {
	if n < 1 {
		n = 1
	}
	std.mu.Lock()
	defer std.mu.Unlock()
	std.attempts = n
}

// Dispatch pushes the job for immediate processing.
func Dispatch(job Job) error {
	payload, _, err := encode(job)
	if err != nil {
		return err
	}
	return std.currentDriver().Push(payload)
}

// DispatchAfter holds the job back for delay. Drivers that support
// native delays (Redis) keep the job durable across restarts; the
// memory driver falls back to a timer.
func DispatchAfter(job Job, delay time.Duration) error {
	payload, name, err := encode(job)
	if err != nil {
		return err
	}

	if dd, ok := std.currentDriver().(DelayedDriver); ok {
		return dd.PushDelayed(payload, delay)
	}

	time.AfterFunc(delay, func() {
		if err := std.currentDriver().Push(payload); err != nil {
			logger.Error("queue: delayed push failed", "type", name, "error", err)
		}
	})
	return nil
}

func encode(job Job) (payload []byte, name string, err error) {
	name = fmt.Sprintf("%T", job)

	body, err := json.Marshal(job)
	if err != nil {
		return nil, name, fmt.Errorf("queue: marshal %s: %w", name, err)
	}
	payload, err = json.Marshal(envelope{Type: name, Payload: body})
	if err != nil {
		return nil, name, fmt.Errorf("queue: marshal envelope: %w", err)
	}
	return payload, name, nil
}

func (m *manager) currentDriver() Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.driver
}

// StartWorkers launches n workers that drain the queue until ctx is
// cancelled.
func StartWorkers(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		go std.work(ctx)
	}
	logger.Info("queue: workers started", "count", n)
}

func (m *manager) work(ctx context.Context) {
	for ctx.Err() == nil {
		raw, err := m.currentDriver().Pop(ctx)
		switch {
		case ctx.Err() != nil:
			return
		case err != nil:
			logger.Error("queue: pop failed", "error", err)
			time.Sleep(500 * time.Millisecond)
		case raw != nil:
			m.run(raw)
		}
	}
}

func (m *manager) run(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: undecodable envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.factories[env.Type]
	attempts, backoff := m.attempts, m.backoff
	m.mu.RUnlock()

	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: undecodable payload", "type", env.Type, "error", err)
		return
	}

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = job.Handle()
		if lastErr == nil {
			metrics.RecordJob(env.Type, nil, start)
			logger.Info("queue: job done", "type", env.Type, "attempt", attempt)
			return
		}
		logger.Warn("queue: job failed", "type", env.Type, "attempt", attempt, "error", lastErr)
		if attempt < attempts {
			time.Sleep(time.Duration(attempt) * backoff)
		}
	}

	metrics.RecordJob(env.Type, lastErr, start)
	m.recordFailure(job, env.Type, lastErr, attempts)
	logger.Error("queue: job exhausted retries", "type", env.Type, "error", lastErr)
}
