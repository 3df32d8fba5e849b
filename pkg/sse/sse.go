// Package sse streams Server-Sent Events to one client per Stream.
//
//	stream := sse.New(c.W, c.R)
//	for !stream.IsClosed() {
//	    stream.Send("tick", payload)
//	    time.Sleep(time.Second)
//	}
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Stream is one live event-stream response.
type Stream struct {
	w     http.ResponseWriter
	flush http.Flusher
	ctx   context.Context
}

// New prepares the response for event streaming. A transport that
// cannot flush gets a 500 and nil back; callers treat a nil stream as
// already closed.
func New(w http.ResponseWriter, r *http.Request) *Stream {
	flush, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return nil
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // keep nginx from buffering the stream

	return &Stream{w: w, flush: flush, ctx: r.Context()}
}

// Send emits a named event with a JSON payload.
func (s *Stream) Send(event string, data any) error {
	if s.IsClosed() {
		return nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("sse: marshal: %w", err)
	}
	fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload)
	s.flush.Flush()
	return nil
}

// SendRaw emits an unnamed data line as-is.
func (s *Stream) SendRaw(data string) {
	if s.IsClosed() {
		return
	}
	fmt.Fprintf(s.w, "data: %s\n\n", data)
	s.flush.Flush()
}

// Comment emits a comment line; browsers ignore it, which makes it the
// standard keepalive.
func (s *Stream) Comment(msg string) {
	if s.IsClosed() {
		return
	}
	fmt.Fprintf(s.w, ": %s\n\n", msg)
	s.flush.Flush()
}

// IsClosed reports whether the client went away.
func (s *Stream) IsClosed() bool {
	return s == nil || s.ctx.Err() != nil
}
