// Package workerpool bounds concurrent background work. Event fan-out
// and notification sends go through a Pool so a burst of orders cannot
// spawn an unbounded number of goroutines.
package workerpool

import (
	"errors"
	"log/slog"
	"sync"
)

var (
	// ErrPoolFull means every worker is busy and the backlog is at
	// capacity; the caller decides whether to drop, retry or run inline.
	ErrPoolFull = errors.New("workerpool: backlog full")

	// ErrPoolClosed means Shutdown has already been called.
	ErrPoolClosed = errors.New("workerpool: closed")
)

// Pool runs submitted funcs on a fixed set of worker goroutines. The
// backlog holds twice the worker count before Submit starts rejecting.
type Pool struct {
	backlog chan func()
	done    chan struct{}
	stop    sync.Once
	workers sync.WaitGroup
}

// New starts a pool with the given worker count (minimum 1).
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}

	p := &Pool{
		backlog: make(chan func(), 2*workers),
		done:    make(chan struct{}),
	}
	p.workers.Add(workers)
	for i := 0; i < workers; i++ {
		go p.run()
	}
	return p
}

// Submit queues task without blocking. ErrPoolFull when the backlog is
// at capacity, ErrPoolClosed after Shutdown.
func (p *Pool) Submit(task func()) error {
	select {
	case <-p.done:
		return ErrPoolClosed
	default:
	}

	select {
	case p.backlog <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait queues task, blocking until a backlog slot frees up or the
// pool shuts down.
func (p *Pool) SubmitWait(task func()) error {
	select {
	case <-p.done:
		return ErrPoolClosed
	case p.backlog <- task:
		return nil
	}
}

// Shutdown rejects further submissions, drains the backlog and waits
// for in-flight tasks. Safe to call more than once.
func (p *Pool) Shutdown() {
	p.stop.Do(func() {
		close(p.done)
		close(p.backlog)
		p.workers.Wait()
	})
}

func (p *Pool) run() {
	defer p.workers.Done()
	for task := range p.backlog {
		p.exec(task)
	}
}

// exec isolates each task so a panic takes down neither the worker nor
// its siblings.
func (p *Pool) exec(task func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("workerpool: task panic", "panic", r)
		}
	}()
	task()
}
