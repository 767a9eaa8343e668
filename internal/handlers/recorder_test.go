package handlers

import (
	"context"
	"sync"
)

type publishedEvent struct {
	Subject string
	Data    any
}

// eventRecorder is an events.Publisher that keeps everything in memory.
type eventRecorder struct {
	mu     sync.Mutex
	events []publishedEvent
	Err    error
}

func (r *eventRecorder) Publish(_ context.Context, subject string, data any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, publishedEvent{Subject: subject, Data: data})
	return r.Err
}

func (r *eventRecorder) Close() {}

func (r *eventRecorder) Events() []publishedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]publishedEvent(nil), r.events...)
}

func (r *eventRecorder) Subjects() []string {
	var out []string
	for _, e := range r.Events() {
		out = append(out, e.Subject)
	}
	return out
}
