// Package status carries run-progress events from the import pipeline to
// any presentation layer. The feed is append-only and thread-safe; readers
// only observe, they never call back into the run.
package status

import (
	"sync"
	"time"
)

// Severity classifies a status event.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityDone    Severity = "done"
)

// Event is one progress message emitted by the orchestrator.
type Event struct {
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}

// Reporter receives status events. A nil Reporter is valid and discards
// everything, so callers never need to guard Publish.
type Reporter interface {
	Publish(ev Event)
}

// Feed is an in-memory append-only event log. It implements Reporter and
// hands out snapshot copies to observers.
type Feed struct {
	mu     sync.RWMutex
	events []Event
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{}
}

// Publish appends an event, stamping it with the current time when unset.
func (f *Feed) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	f.mu.Lock()
	f.events = append(f.events, ev)
	f.mu.Unlock()
}

// Snapshot returns a copy of all events published so far.
func (f *Feed) Snapshot() []Event {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Event, len(f.events))
	copy(out, f.events)
	return out
}

// Last returns the most recent event and true, or a zero Event and false
// when nothing has been published.
func (f *Feed) Last() (Event, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.events) == 0 {
		return Event{}, false
	}
	return f.events[len(f.events)-1], true
}

// Len returns the number of events published so far.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.events)
}
