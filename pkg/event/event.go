// Package event is the in-process pub/sub used to decouple the write
// path from its side effects (feeds, counters, notifications).
package event

import (
	"sync"

	"github.com/shashiranjanraj/villageangel/pkg/workerpool"
)

// Handler receives the event payload. Async handlers must not assume
// they run before the firing request returns.
type Handler func(payload interface{})

var (
	mu        sync.RWMutex
	listeners = map[string][]Handler{}

	// asyncPool bounds FireAsync concurrency so an event burst cannot
	// spawn goroutines without limit.
	asyncPool = workerpool.New(16)
)

// Listen subscribes a handler to an event name.
func Listen(name string, h Handler) {
	mu.Lock()
	defer mu.Unlock()
	listeners[name] = append(listeners[name], h)
}

// Fire runs every listener synchronously, in registration order.
func Fire(name string, payload interface{}) {
	for _, h := range snapshot(name) {
		h(payload)
	}
}

// FireAsync schedules every listener on the bounded pool and returns
// immediately. When the pool is saturated the handler runs on its own
// goroutine instead; events are never dropped.
func FireAsync(name string, payload interface{}) {
	for _, h := range snapshot(name) {
		h := h
		if err := asyncPool.Submit(func() { h(payload) }); err != nil {
			go h(payload)
		}
	}
}

// Flush drops all listeners. Tests use it to isolate themselves.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	listeners = map[string][]Handler{}
}

// snapshot copies the handler list so a Fire in progress is unaffected
// by concurrent Listen calls.
func snapshot(name string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	return append([]Handler(nil), listeners[name]...)
}
