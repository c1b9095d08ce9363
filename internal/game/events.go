package game

import (
	"github.com/coltonswapp/hardway-blackjack/internal/bonus"
	"github.com/coltonswapp/hardway-blackjack/internal/deck"
	"github.com/coltonswapp/hardway-blackjack/internal/events"
	"github.com/coltonswapp/hardway-blackjack/internal/session"
)

// EventType constants for round events. Shoe events live in package shoe.
const (
	EventTypePhaseChanged        events.EventType = "phase_changed"
	EventTypePlayerActionChanged events.EventType = "player_action_changed"
	EventTypeSplitStateChanged   events.EventType = "split_state_changed"
	EventTypeHandResolved        events.EventType = "hand_resolved"
	EventTypeInsuranceOffered    events.EventType = "insurance_offered"
	EventTypeInsuranceResolved   events.EventType = "insurance_resolved"
	EventTypeSideBetResolved     events.EventType = "side_bet_resolved"
)

// PhaseChanged is published on every phase transition.
type PhaseChanged struct {
	From Phase
	To   Phase
}

func (PhaseChanged) EventType() events.EventType { return EventTypePhaseChanged }

// PlayerActionChanged is published after a player action was applied.
type PlayerActionChanged struct {
	HandIndex int
	Action    Action
	Cards     []deck.Card
	Total     int
	Busted    bool
}

func (PlayerActionChanged) EventType() events.EventType { return EventTypePlayerActionChanged }

// SplitStateChanged is published when a round splits and when play moves
// to the second hand.
type SplitStateChanged struct {
	IsSplit     bool
	ActiveIndex int
}

func (SplitStateChanged) EventType() events.EventType { return EventTypeSplitStateChanged }

// HandResolved carries the settlement of one player hand.
type HandResolved struct {
	HandIndex   int
	Result      session.Result
	PlayerCards []deck.Card
	DealerCards []deck.Card
	PlayerTotal int
	DealerTotal int
	Bet         int
	// Payout is everything credited back for the hand, stake included. A
	// stake left on the table for the next round is not part of it.
	Payout int
}

func (HandResolved) EventType() events.EventType { return EventTypeHandResolved }

// InsuranceOffered is published when the dealer shows an ace.
type InsuranceOffered struct {
	MaxStake int
}

func (InsuranceOffered) EventType() events.EventType { return EventTypeInsuranceOffered }

// InsuranceResolved is published when the player continues past the
// insurance decision.
type InsuranceResolved struct {
	Stake           int
	DealerBlackjack bool
	Payout          int
}

func (InsuranceResolved) EventType() events.EventType { return EventTypeInsuranceResolved }

// SideBetResolved carries the settlement of one side bet.
type SideBetResolved struct {
	Kind    bonus.Kind
	Stake   int
	Outcome bonus.Outcome
	// Payout is stake plus winnings for a win, zero for a loss.
	Payout int
}

func (SideBetResolved) EventType() events.EventType { return EventTypeSideBetResolved }
