package hand

import (
	"testing"

	"github.com/coltonswapp/hardway-blackjack/internal/deck"
	"github.com/stretchr/testify/assert"
)

func cards(s string) []deck.Card { return deck.MustParseCards(s) }

func TestTotal(t *testing.T) {
	tests := []struct {
		name     string
		hand     string
		expected int
	}{
		{"blackjack", "As Kh", 21},
		{"two aces", "As Ah", 12},
		{"soft 21 three cards", "As Ah 9c", 21},
		{"ace downgraded", "As 5h 8c", 14},
		{"busted", "Ts 6h 6c", 22},
		{"face cards", "Kd Qc", 20},
		{"four aces", "As Ah Ad Ac", 14},
		{"minimum when busted", "Ks Qh As 9c", 30},
		{"soft 17", "As 6h", 17},
		{"hard 17", "Ts 7h", 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Total(cards(tt.hand)))
		})
	}
}

func TestTotalEmptyPanics(t *testing.T) {
	assert.Panics(t, func() { Total(nil) })
}

func TestIsBlackjack(t *testing.T) {
	assert.True(t, IsBlackjack(cards("As Kh")))
	assert.True(t, IsBlackjack(cards("Td Ac")))
	assert.False(t, IsBlackjack(cards("As 5h 5c")), "three card 21 is not a natural")
	assert.False(t, IsBlackjack(cards("As Ah")))
	assert.False(t, IsBlackjack(cards("Ks Qh")))
	assert.False(t, IsBlackjack(nil))
}

func TestIsBusted(t *testing.T) {
	assert.True(t, IsBusted(cards("Ts 6h 6c")))
	assert.False(t, IsBusted(cards("As Ah 9c")))
	assert.False(t, IsBusted(nil))
}

func TestIsSoft17(t *testing.T) {
	assert.True(t, IsSoft17(cards("As 6h")))
	assert.True(t, IsSoft17(cards("As 2h 4c")))
	assert.False(t, IsSoft17(cards("Ts 7h")), "hard 17")
	assert.False(t, IsSoft17(cards("As 6h Tc")), "ace forced to one")
	assert.False(t, IsSoft17(cards("As 7h")))
}

func TestIsSoft(t *testing.T) {
	assert.True(t, IsSoft(cards("As Ah 9c")))
	assert.False(t, IsSoft(cards("As 5h 8c")))
	assert.False(t, IsSoft(cards("Ts 9h")))
}

func TestDealerShouldHit(t *testing.T) {
	assert.True(t, DealerShouldHit(cards("Ts 6h")))
	assert.True(t, DealerShouldHit(cards("As 6h")))
	assert.False(t, DealerShouldHit(cards("Ts 7h")))
	assert.False(t, DealerShouldHit(cards("As 7h")))
}

func TestCanSplit(t *testing.T) {
	assert.True(t, CanSplit(cards("8s 8h")))
	assert.False(t, CanSplit(cards("Ks Qh")), "equal value is not equal rank")
	assert.False(t, CanSplit(cards("8s 8h 8c")))
}

func TestCardValue(t *testing.T) {
	assert.Equal(t, 1, CardValue(deck.NewCard(deck.Ace, deck.Spades)))
	assert.Equal(t, 10, CardValue(deck.NewCard(deck.King, deck.Spades)))
	assert.Equal(t, 7, CardValue(deck.NewCard(deck.Seven, deck.Spades)))
	assert.Equal(t, 0, CardValue(deck.CutCard()))
}
