// Package schedule runs recurring background tasks.
//
//	schedule.EveryMinute().Run(pollFeeds)
//	schedule.Every(6).Hours().Name("report:daily").Run(buildReport)
//	schedule.Daily().At("03:00").Run(pruneSessions)
//	schedule.Cron("*/15 * * * *").WithoutOverlapping().Run(syncStock)
//
//	schedule.Start(ctx) // once, at boot
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/villageangel/pkg/logger"
)

// Task is a unit of scheduled work.
type Task func()

// trigger decides whether a task is due at a given minute boundary or
// interval tick.
type trigger interface {
	due(now, lastRun time.Time) bool
	String() string
}

type job struct {
	name      string
	when      trigger
	task      Task
	noOverlap bool

	mu      sync.Mutex
	lastRun time.Time
	active  bool
}

var (
	mu   sync.Mutex
	jobs []*job
	seq  int
)

// Builder configures one job before Run registers it.
type Builder struct {
	j *job
}

// Every starts an interval-based builder, completed by a unit method.
func Every(n int) Interval { return Interval{n: n} }

// Interval is the pending "Every(n)" half of the fluent chain.
type Interval struct{ n int }

func (i Interval) Seconds() *Builder { return intervalBuilder(time.Duration(i.n) * time.Second) }
func (i Interval) Minutes() *Builder { return intervalBuilder(time.Duration(i.n) * time.Minute) }
func (i Interval) Hours() *Builder   { return intervalBuilder(time.Duration(i.n) * time.Hour) }
func (i Interval) Days() *Builder    { return intervalBuilder(time.Duration(i.n) * 24 * time.Hour) }

// EveryMinute runs the task once a minute.
func EveryMinute() *Builder { return Every(1).Minutes() }

// Hourly runs the task once an hour.
func Hourly() *Builder { return Every(1).Hours() }

// Daily runs the task once a day; combine with At for a fixed time.
func Daily() *Builder { return Every(24).Hours() }

// Cron schedules by a 5-field expression: minute hour dom month dow.
// Fields accept *, exact numbers, a-b ranges, */step and comma lists.
func Cron(expr string) *Builder {
	return &Builder{j: &job{when: cronTrigger(expr)}}
}

func intervalBuilder(d time.Duration) *Builder {
	return &Builder{j: &job{when: everyTrigger(d)}}
}

// At pins the job to a fixed HH:MM each day, replacing the builder's
// interval. A malformed time is a programmer error and panics at boot.
func (b *Builder) At(hhmm string) *Builder {
	hh, mm, ok := strings.Cut(hhmm, ":")
	h, herr := strconv.Atoi(hh)
	m, merr := strconv.Atoi(mm)
	if !ok || herr != nil || merr != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		panic(fmt.Sprintf("schedule: bad time %q, want HH:MM", hhmm))
	}
	b.j.when = cronTrigger(fmt.Sprintf("%d %d * * *", m, h))
	return b
}

// WithoutOverlapping skips a run while the previous one is still going.
func (b *Builder) WithoutOverlapping() *Builder {
	b.j.noOverlap = true
	return b
}

// Name labels the job in logs and the CLI listing.
func (b *Builder) Name(name string) *Builder {
	b.j.name = name
	return b
}

// Run registers the job. Start must be called for anything to fire.
func (b *Builder) Run(fn Task) {
	b.j.task = fn

	mu.Lock()
	defer mu.Unlock()
	seq++
	if b.j.name == "" {
		b.j.name = fmt.Sprintf("job-%d", seq)
	}
	jobs = append(jobs, b.j)
}

// Start launches the dispatch loop. It returns immediately and stops
// when ctx is cancelled; in-flight tasks finish on their own.
func Start(ctx context.Context) {
	go loop(ctx)
	logger.Info("schedule: started")
}

// List describes registered jobs for the CLI.
func List() []string {
	mu.Lock()
	defer mu.Unlock()

	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, fmt.Sprintf("%s  [%s]", j.name, j.when))
	}
	return out
}

func loop(ctx context.Context) {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("schedule: stopped")
			return
		case now := <-tick.C:
			mu.Lock()
			due := make([]*job, 0, len(jobs))
			for _, j := range jobs {
				if j.when.due(now, j.lastRun) {
					due = append(due, j)
				}
			}
			mu.Unlock()

			for _, j := range due {
				j.fire()
			}
		}
	}
}

func (j *job) fire() {
	j.mu.Lock()
	if j.noOverlap && j.active {
		j.mu.Unlock()
		logger.Warn("schedule: run still in progress, skipping", "job", j.name)
		return
	}
	j.active = true
	j.lastRun = time.Now()
	j.mu.Unlock()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("schedule: job panicked", "job", j.name, "panic", r)
			}
			j.mu.Lock()
			j.active = false
			j.mu.Unlock()
		}()

		logger.Info("schedule: run", "job", j.name)
		j.task()
	}()
}

// everyTrigger fires once per interval, starting on the first tick.
type everyTrigger time.Duration

func (e everyTrigger) due(now, lastRun time.Time) bool {
	return lastRun.IsZero() || now.Sub(lastRun) >= time.Duration(e)
}

func (e everyTrigger) String() string { return "every " + time.Duration(e).String() }

// cronTrigger fires at most once per matching wall-clock minute.
type cronTrigger string

func (c cronTrigger) due(now, lastRun time.Time) bool {
	if !lastRun.IsZero() && now.Truncate(time.Minute).Equal(lastRun.Truncate(time.Minute)) {
		return false
	}

	fields := strings.Fields(string(c))
	if len(fields) != 5 {
		return false
	}
	vals := []int{now.Minute(), now.Hour(), now.Day(), int(now.Month()), int(now.Weekday())}
	for i, f := range fields {
		if !cronFieldMatch(f, vals[i]) {
			return false
		}
	}
	return true
}

func (c cronTrigger) String() string { return string(c) }

func cronFieldMatch(field string, val int) bool {
	for _, part := range strings.Split(field, ",") {
		switch {
		case part == "*":
			return true
		case strings.HasPrefix(part, "*/"):
			if step, err := strconv.Atoi(part[2:]); err == nil && step > 0 && val%step == 0 {
				return true
			}
		case strings.Contains(part, "-"):
			lo, hi, _ := strings.Cut(part, "-")
			l, lerr := strconv.Atoi(lo)
			h, herr := strconv.Atoi(hi)
			if lerr == nil && herr == nil && val >= l && val <= h {
				return true
			}
		default:
			if n, err := strconv.Atoi(part); err == nil && n == val {
				return true
			}
		}
	}
	return false
}
