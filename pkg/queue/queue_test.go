package queue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shashiranjanraj/villageangel/pkg/queue"
)

// handled receives a tag every time a test job runs, letting tests wait
// on real completion instead of sleeping.
var handled = make(chan string, 100)

type pingJob struct {
	Tag string `json:"tag"`
}

func (j *pingJob) Handle() error {
	handled <- j.Tag
	return nil
}

type boomJob struct{}

func (j *boomJob) Handle() error {
	handled <- "boom"
	return errors.New("boom")
}

func init() {
	queue.Register("*queue_test.pingJob", func() queue.Job { return &pingJob{} })
	queue.Register("*queue_test.boomJob", func() queue.Job { return &boomJob{} })
	queue.StartWorkers(context.Background(), 2)
}

func waitFor(t *testing.T, tag string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case got := <-handled:
			if got == tag {
				return
			}
		case <-deadline:
			t.Fatalf("job %q never ran", tag)
		}
	}
}

func TestDispatchRunsJob(t *testing.T) {
	if err := queue.Dispatch(&pingJob{Tag: "direct"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	waitFor(t, "direct")
}

func TestDispatchAfterHonorsDelay(t *testing.T) {
	start := time.Now()
	if err := queue.DispatchAfter(&pingJob{Tag: "delayed"}, 100*time.Millisecond); err != nil {
		t.Fatalf("dispatch after: %v", err)
	}
	waitFor(t, "delayed")

	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("job ran after %v, before its delay", elapsed)
	}
}

func TestExhaustedJobIsRecordedAsFailed(t *testing.T) {
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	if err := queue.Dispatch(&boomJob{}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	waitFor(t, "boom")

	deadline := time.Now().Add(2 * time.Second)
	for {
		for _, f := range queue.FailedJobs() {
			if _, ok := f.Job.(*boomJob); ok {
				if f.Err == nil || f.Err.Error() != "boom" {
					t.Errorf("failure cause = %v, want boom", f.Err)
				}
				return
			}
		}
		if time.Now().After(deadline) {
			t.Fatal("failure never recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestMemoryDriverBackpressure(t *testing.T) {
	d := queue.NewMemoryDriver()

	for i := 0; i < 1000; i++ {
		if err := d.Push([]byte("x")); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if err := d.Push([]byte("overflow")); !errors.Is(err, queue.ErrQueueFull) {
		t.Fatalf("push over capacity = %v, want ErrQueueFull", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	payload, err := d.Pop(ctx)
	if err != nil || string(payload) != "x" {
		t.Fatalf("pop = %q, %v", payload, err)
	}
}
