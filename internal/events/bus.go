// Package events carries engine notifications to the presentation layer.
//
// Publishers never rely on side effects of field assignment: every state
// change that matters to a listener is published explicitly as a typed
// Event value on a Bus.
package events

// EventType represents an event type with type safety
type EventType string

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is anything published on a Bus.
type Event interface {
	EventType() EventType
}

// Subscriber can subscribe to events
type Subscriber interface {
	OnEvent(event Event)
}

// SubscriberFunc adapts a plain function to a Subscriber.
type SubscriberFunc func(Event)

// OnEvent calls f(event).
func (f SubscriberFunc) OnEvent(event Event) { f(event) }

// Publisher is the write side of a Bus.
type Publisher interface {
	Publish(event Event)
}

// Bus manages event publishing and subscription
type Bus interface {
	Publisher
	Subscribe(subscriber Subscriber) (unsubscribe func())
}

// SimpleBus is a synchronous in-memory bus. Delivery happens on the
// publisher's goroutine in subscription order.
type SimpleBus struct {
	subscribers []*subscription
}

type subscription struct {
	sub Subscriber
}

// NewBus creates a new event bus
func NewBus() *SimpleBus {
	return &SimpleBus{}
}

// Subscribe adds a subscriber and returns a function that removes it.
func (b *SimpleBus) Subscribe(subscriber Subscriber) func() {
	s := &subscription{sub: subscriber}
	b.subscribers = append(b.subscribers, s)
	return func() {
		for i, existing := range b.subscribers {
			if existing == s {
				b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Publish sends an event to all subscribers
func (b *SimpleBus) Publish(event Event) {
	for _, s := range b.subscribers {
		s.sub.OnEvent(event)
	}
}

// Discard is a Publisher that drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}

// Recorder collects published events, mostly for tests and for returning
// the events produced by a single intent.
type Recorder struct {
	Events []Event
}

// OnEvent appends the event.
func (r *Recorder) OnEvent(event Event) {
	r.Events = append(r.Events, event)
}

// Reset clears the recorded events.
func (r *Recorder) Reset() {
	r.Events = nil
}

// OfType returns the recorded events with the given type.
func (r *Recorder) OfType(t EventType) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}
