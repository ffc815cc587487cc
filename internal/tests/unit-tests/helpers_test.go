package unit_tests

import (
	"context"
	"sync"
	"testing"

	"blankdigi/internal/events"
)

// eventRecorder captures emitted events for assertions.
type eventRecorder struct {
	mu       sync.Mutex
	names    []string
	captured map[string][]events.AppEvent
}

func recordEvents(t *testing.T) *eventRecorder {
	t.Helper()
	rec := &eventRecorder{captured: make(map[string][]events.AppEvent)}
	events.SetCustomEmitter(func(ctx context.Context, name string, evt events.AppEvent) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.names = append(rec.names, name)
		rec.captured[name] = append(rec.captured[name], evt)
	})
	t.Cleanup(func() { events.SetCustomEmitter(nil) })
	return rec
}

func (r *eventRecorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.captured[name])
}

func (r *eventRecorder) eventsFor(name string) []events.AppEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.AppEvent, len(r.captured[name]))
	copy(out, r.captured[name])
	return out
}
