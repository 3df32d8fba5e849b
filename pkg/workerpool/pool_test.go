package workerpool_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shashiranjanraj/villageangel/pkg/workerpool"
)

func TestPoolRunsEverySubmittedTask(t *testing.T) {
	p := workerpool.New(4)
	defer p.Shutdown()

	const n = 200
	var ran atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		if err := p.SubmitWait(func() {
			defer wg.Done()
			ran.Add(1)
		}); err != nil {
			t.Fatalf("SubmitWait: %v", err)
		}
	}
	wg.Wait()

	if got := ran.Load(); got != n {
		t.Errorf("ran %d tasks, want %d", got, n)
	}
}

func TestPoolRejectsWhenBacklogFull(t *testing.T) {
	p := workerpool.New(1)
	defer p.Shutdown()

	release := make(chan struct{})
	started := make(chan struct{})

	// Occupy the only worker.
	if err := p.SubmitWait(func() {
		close(started)
		<-release
	}); err != nil {
		t.Fatalf("SubmitWait: %v", err)
	}
	<-started

	// Backlog capacity is 2× workers = 2 slots.
	if err := p.Submit(func() {}); err != nil {
		t.Fatalf("first backlog submit: %v", err)
	}
	if err := p.Submit(func() {}); err != nil {
		t.Fatalf("second backlog submit: %v", err)
	}

	if err := p.Submit(func() {}); !errors.Is(err, workerpool.ErrPoolFull) {
		t.Errorf("err = %v, want ErrPoolFull", err)
	}

	close(release)
}

func TestPoolRejectsAfterShutdown(t *testing.T) {
	p := workerpool.New(2)
	p.Shutdown()

	if err := p.Submit(func() {}); !errors.Is(err, workerpool.ErrPoolClosed) {
		t.Errorf("err = %v, want ErrPoolClosed", err)
	}
}

func TestPoolSurvivesTaskPanic(t *testing.T) {
	p := workerpool.New(1)
	defer p.Shutdown()

	var wg sync.WaitGroup
	wg.Add(1)
	_ = p.SubmitWait(func() {
		defer wg.Done()
		panic("boom")
	})
	wg.Wait()

	// The single worker must still be alive.
	done := make(chan struct{})
	_ = p.SubmitWait(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker died after a task panic")
	}
}

func TestPoolShutdownDrainsInFlightWork(t *testing.T) {
	p := workerpool.New(8)

	var ran atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		_ = p.SubmitWait(func() {
			defer wg.Done()
			time.Sleep(time.Millisecond)
			ran.Add(1)
		})
	}
	wg.Wait()
	p.Shutdown()

	if got := ran.Load(); got != 40 {
		t.Errorf("ran %d tasks, want 40", got)
	}

	// Second Shutdown is a no-op.
	p.Shutdown()
}
