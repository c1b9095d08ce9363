package simulator

import (
	"slices"

	"github.com/coltonswapp/hardway-blackjack/internal/deck"
	"github.com/coltonswapp/hardway-blackjack/internal/game"
)

// Policy decides the simulated player's actions.
type Policy interface {
	// Act picks one of actions for hand against the dealer's upcard.
	Act(hand game.HandState, upcard deck.Card, actions []game.Action) game.Action
	// Insure reports whether to take insurance on hand.
	Insure(hand game.HandState) bool
}

// Scripted is a fixed house-rules player: split aces and eights, double on
// 10 or 11, hit below 17, never insure.
type Scripted struct{}

// Act implements Policy.
func (Scripted) Act(hand game.HandState, _ deck.Card, actions []game.Action) game.Action {
	can := func(a game.Action) bool { return slices.Contains(actions, a) }

	if can(game.Split) && len(hand.Cards) == 2 {
		r := hand.Cards[0].Rank
		if r == hand.Cards[1].Rank && (r == deck.Ace || r == deck.Eight) {
			return game.Split
		}
	}
	total := hand.Total()
	if can(game.Double) && (total == 10 || total == 11) {
		return game.Double
	}
	if total < 17 && can(game.Hit) {
		return game.Hit
	}
	return game.Stand
}

// Insure implements Policy.
func (Scripted) Insure(game.HandState) bool { return false }

// AlwaysInsure plays like Scripted but takes full insurance whenever it is
// offered.
type AlwaysInsure struct{ Scripted }

// Insure implements Policy.
func (AlwaysInsure) Insure(game.HandState) bool { return true }

// PolicyByName returns a built-in policy.
func PolicyByName(name string) (Policy, bool) {
	switch name {
	case "", "scripted":
		return Scripted{}, true
	case "insure":
		return AlwaysInsure{}, true
	default:
		return nil, false
	}
}
