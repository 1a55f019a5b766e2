// Package events carries observational notifications (ready, start,
// message, end, error) from a split request to interested observers.
//
// Observers only watch: nothing they return or do feeds back into the
// pipeline. A Bus may be shared by concurrent requests; RequestID tells
// their events apart.
package events

import (
	"fmt"
	"slices"
	"sync"
)

// Kind identifies an event type.
type Kind string

const (
	// KindReady is emitted once when a Splitter is constructed.
	KindReady Kind = "ready"
	// KindStart opens a request, before the source is retrieved.
	KindStart Kind = "start"
	// KindMessage carries progress text for a request.
	KindMessage Kind = "message"
	// KindEnd closes a successful request and names the output directory.
	KindEnd Kind = "end"
	// KindError closes a failed request.
	KindError Kind = "error"
)

// Event is a single notification.
type Event struct {
	Kind       Kind
	RequestID  string
	URL        string
	Text       string
	OutputPath string
	Err        error
}

// Observer receives events.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Notify calls f.
func (f ObserverFunc) Notify(e Event) {
	f(e)
}

// Bus fans events out to subscribed observers. The zero value is usable and
// a nil *Bus drops every event.
type Bus struct {
	mu        sync.RWMutex
	next      int
	observers map[int]Observer
}

// NewBus returns a bus with the given observers subscribed.
func NewBus(observers ...Observer) *Bus {
	b := &Bus{}
	for _, o := range observers {
		b.Subscribe(o)
	}
	return b
}

// Subscribe registers an observer and returns a function that removes it.
func (b *Bus) Subscribe(o Observer) func() {
	if b == nil || o == nil {
		return func() {}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.observers == nil {
		b.observers = make(map[int]Observer)
	}
	id := b.next
	b.next++
	b.observers[id] = o
	return func() {
		b.mu.Lock()
		delete(b.observers, id)
		b.mu.Unlock()
	}
}

// Emit delivers e to every observer in subscription order.
func (b *Bus) Emit(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	ids := make([]int, 0, len(b.observers))
	for id := range b.observers {
		ids = append(ids, id)
	}
	observers := make([]Observer, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		observers = append(observers, b.observers[id])
	}
	b.mu.RUnlock()

	for _, o := range observers {
		o.Notify(e)
	}
}

// Messagef emits a message event for the given request.
func (b *Bus) Messagef(requestID, format string, args ...any) {
	b.Emit(Event{Kind: KindMessage, RequestID: requestID, Text: fmt.Sprintf(format, args...)})
}
