package game

import (
	"fmt"
	"slices"

	"github.com/coltonswapp/hardway-blackjack/internal/deck"
	"github.com/coltonswapp/hardway-blackjack/internal/hand"
)

// Action is a player decision.
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
)

func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Split:
		return "split"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// HandState is one player hand and the stake riding on it.
type HandState struct {
	Cards      []deck.Card
	HasHit     bool
	HasStood   bool
	HasDoubled bool
	Busted     bool
	Bet        int
}

// Total returns the hand total, zero for an empty hand.
func (h HandState) Total() int {
	if len(h.Cards) == 0 {
		return 0
	}
	return hand.Total(h.Cards)
}

// Done reports whether the hand takes no more actions.
func (h HandState) Done() bool {
	return h.HasStood || h.Busted
}

func (h HandState) clone() HandState {
	h.Cards = slices.Clone(h.Cards)
	return h
}

func (h *HandState) add(c deck.Card) {
	h.Cards = append(h.Cards, c)
	switch {
	case hand.IsBusted(h.Cards):
		h.Busted = true
	case hand.Total(h.Cards) == hand.Blackjack:
		h.HasStood = true
	}
}

// canDouble: exactly two cards, untouched.
func (h HandState) canDouble() bool {
	return len(h.Cards) == 2 && !h.HasHit && !h.HasDoubled && !h.Done()
}

// SplitState holds the two hands of a split round.
type SplitState struct {
	Hands       [2]HandState
	ActiveIndex int
}

// Hand returns the hand at index i. Only 0 and 1 exist.
func (s *SplitState) Hand(i int) *HandState {
	if i < 0 || i > 1 {
		panic(fmt.Sprintf("game: split hand index %d out of range", i))
	}
	return &s.Hands[i]
}

func (s *SplitState) clone() SplitState {
	return SplitState{
		Hands:       [2]HandState{s.Hands[0].clone(), s.Hands[1].clone()},
		ActiveIndex: s.ActiveIndex,
	}
}
