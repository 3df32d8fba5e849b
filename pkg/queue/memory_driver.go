package queue

import (
	"context"
	"errors"
)

// ErrQueueFull is returned by the memory driver when its buffer is at
// capacity. Durable drivers never return it.
var ErrQueueFull = errors.New("queue: buffer full")

// MemoryDriver buffers jobs in a channel. Nothing survives a restart,
// which is fine for development and tests.
type MemoryDriver struct {
	jobs chan []byte
}

// NewMemoryDriver buffers up to 1000 pending jobs.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{jobs: make(chan []byte, 1000)}
}

// Push enqueues without blocking; a full buffer is an error so the
// dispatcher can surface backpressure instead of stalling a request.
func (d *MemoryDriver) Push(payload []byte) error {
	select {
	case d.jobs <- payload:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.jobs:
		return payload, nil
	}
}
