// Package hand scores blackjack hands. Every function is pure.
package hand

import "github.com/coltonswapp/hardway-blackjack/internal/deck"

const (
	// Blackjack is the best total a hand can reach.
	Blackjack = 21
	// DealerStand is the total a dealer stands on (unless it is soft).
	DealerStand = 17
)

// CardValue returns the hard value of a card: face value for 2-10, 10 for
// J/Q/K and 1 for an ace.
func CardValue(c deck.Card) int {
	switch {
	case c.CutMarker:
		return 0
	case c.Rank == deck.Ace:
		return 1
	case c.Rank >= deck.Ten:
		return 10
	default:
		return int(c.Rank)
	}
}

// IsTenValue reports whether the card counts as ten (10, J, Q, K).
func IsTenValue(c deck.Card) bool {
	return !c.CutMarker && c.Rank >= deck.Ten && c.Rank <= deck.King
}

// hardTotal counts every ace as one.
func hardTotal(cards []deck.Card) (total int, aces int) {
	for _, c := range cards {
		if c.IsAce() {
			aces++
		}
		total += CardValue(c)
	}
	return total, aces
}

// Total returns the best total not above 21 when one exists, otherwise the
// minimum possible total. It panics on an empty hand.
func Total(cards []deck.Card) int {
	if len(cards) == 0 {
		panic("hand: total of an empty hand")
	}
	hard, aces := hardTotal(cards)
	total := hard + 10*aces
	for total > Blackjack && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsSoft reports whether an ace is currently counted as eleven.
func IsSoft(cards []deck.Card) bool {
	if len(cards) == 0 {
		return false
	}
	hard, aces := hardTotal(cards)
	return aces > 0 && hard+10 <= Blackjack && Total(cards) == hard+10
}

// IsBlackjack reports a natural: exactly an ace and a ten-value card.
func IsBlackjack(cards []deck.Card) bool {
	if len(cards) != 2 {
		return false
	}
	a, b := cards[0], cards[1]
	return (a.IsAce() && IsTenValue(b)) || (b.IsAce() && IsTenValue(a))
}

// IsBusted reports a total above 21.
func IsBusted(cards []deck.Card) bool {
	return len(cards) > 0 && Total(cards) > Blackjack
}

// IsSoft17 reports a seventeen with an ace counted as eleven.
func IsSoft17(cards []deck.Card) bool {
	if len(cards) == 0 {
		return false
	}
	hard, aces := hardTotal(cards)
	return Total(cards) == DealerStand && aces > 0 && hard+10 == DealerStand
}

// DealerShouldHit applies the house rule: hit below 17 and on soft 17.
func DealerShouldHit(cards []deck.Card) bool {
	return Total(cards) < DealerStand || IsSoft17(cards)
}

// CanSplit reports whether the first two cards are a pair of equal rank.
func CanSplit(cards []deck.Card) bool {
	return len(cards) == 2 && cards[0].Rank == cards[1].Rank
}
