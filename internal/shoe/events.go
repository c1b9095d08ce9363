package shoe

import "github.com/coltonswapp/hardway-blackjack/internal/events"

const (
	EventTypeShuffleOccurred  events.EventType = "shuffle_occurred"
	EventTypeCutReached       events.EventType = "cut_reached"
	EventTypeCountUpdated     events.EventType = "count_updated"
	EventTypeDeckCountChanged events.EventType = "deck_count_changed"
)

// ShuffleOccurred is published after every (re)shuffle.
type ShuffleOccurred struct {
	CardCount int
}

func (ShuffleOccurred) EventType() events.EventType { return EventTypeShuffleOccurred }

// CutReached is published the first time the cut marker is drawn from a shoe.
type CutReached struct{}

func (CutReached) EventType() events.EventType { return EventTypeCutReached }

// CountUpdated carries the Hi-Lo count after a card became visible.
type CountUpdated struct {
	Running int
	True    int
}

func (CountUpdated) EventType() events.EventType { return EventTypeCountUpdated }

// DeckCountChanged carries the physical cards left in the shoe.
type DeckCountChanged struct {
	Remaining int
}

func (DeckCountChanged) EventType() events.EventType { return EventTypeDeckCountChanged }
