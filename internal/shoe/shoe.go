// Package shoe owns the card shoe: building and shuffling decks, placing
// the cut card, drawing, and the Hi-Lo count of cards seen by the player.
package shoe

import (
	"github.com/coltonswapp/hardway-blackjack/internal/deck"
	"github.com/coltonswapp/hardway-blackjack/internal/randutil"
)

// Shoe is an ordered run of cards, front first, holding at most one cut
// marker.
type Shoe struct {
	cards []deck.Card
	next  int
	cut   int // index of the cut marker, -1 when absent
}

// newShoe builds decks×52 cards, shuffles them with src and inserts the cut
// marker at floor(size×fraction) when fraction > 0.
func newShoe(src randutil.Source, decks int, fraction float64) *Shoe {
	physical := deck.Decks(decks)
	src.Shuffle(len(physical), func(i, j int) {
		physical[i], physical[j] = physical[j], physical[i]
	})

	s := &Shoe{cut: -1}
	if fraction <= 0 {
		s.cards = physical
		return s
	}

	pos := int(float64(len(physical)) * fraction)
	s.cards = make([]deck.Card, 0, len(physical)+1)
	s.cards = append(s.cards, physical[:pos]...)
	s.cards = append(s.cards, deck.CutCard())
	s.cards = append(s.cards, physical[pos:]...)
	s.cut = pos
	return s
}

// Pop removes and returns the front card, marker included.
func (s *Shoe) Pop() (deck.Card, bool) {
	if s.next >= len(s.cards) {
		return deck.Card{}, false
	}
	c := s.cards[s.next]
	s.next++
	return c, true
}

// Len returns the cards left including an undrawn cut marker.
func (s *Shoe) Len() int {
	return len(s.cards) - s.next
}

// Physical returns the playing cards left.
func (s *Shoe) Physical() int {
	n := s.Len()
	if s.cut >= s.next {
		n--
	}
	return n
}

// CutIndex returns the draw position of the cut marker, or -1.
func (s *Shoe) CutIndex() int {
	return s.cut
}

// Size returns the total number of cards the shoe was built with.
func (s *Shoe) Size() int {
	return len(s.cards)
}
