package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/coltonswapp/hardway-blackjack/internal/events"
	"github.com/coltonswapp/hardway-blackjack/internal/session"
	"github.com/coltonswapp/hardway-blackjack/internal/shoe"
)

// newTestEngine returns an engine over a single ordered deck with stack on
// top, a $200 balance and no cut card.
func newTestEngine(t *testing.T, stack string, opts ...Option) (*Engine, *events.Recorder) {
	t.Helper()
	rec := &events.Recorder{}
	bus := events.NewBus()
	bus.Subscribe(rec)

	base := []Option{
		WithSource(shoe.Stack(stack)),
		WithDecks(1),
		WithPenetration(shoe.FullShoe()),
		WithStartingBalance(200),
		WithBus(bus),
		WithLogger(log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})),
		WithSessionOptions(session.WithClock(quartz.NewMock(t)), session.WithID("test-session")),
	}
	e := New(append(base, opts...)...)
	rec.Reset()
	return e, rec
}

func ofType(evs []events.Event, t events.EventType) []events.Event {
	var out []events.Event
	for _, e := range evs {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

func resolved(evs []events.Event) []HandResolved {
	var out []HandResolved
	for _, e := range ofType(evs, EventTypeHandResolved) {
		out = append(out, e.(HandResolved))
	}
	return out
}
