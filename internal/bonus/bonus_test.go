package bonus

import (
	"testing"

	"github.com/coltonswapp/hardway-blackjack/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func two(s string) (deck.Card, deck.Card) {
	c := deck.MustParseCards(s)
	return c[0], c[1]
}

func TestPerfectPairs(t *testing.T) {
	tests := []struct {
		hand string
		win  bool
		odds float64
	}{
		{"7s 7s", true, 30},
		{"7h 7d", true, 10},
		{"7s 7c", true, 10},
		{"7h 7c", true, 5},
		{"7h 8h", false, 0},
		{"Kh Qh", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.hand, func(t *testing.T) {
			got := EvaluatePerfectPairs(two(tt.hand))
			assert.Equal(t, tt.win, got.Win)
			assert.Equal(t, tt.odds, got.Odds)
		})
	}
}

func TestRoyalMatch(t *testing.T) {
	assert.Equal(t, 25.0, EvaluateRoyalMatch(two("Kd Qd")).Odds)
	assert.Equal(t, 25.0, EvaluateRoyalMatch(two("Qs Ks")).Odds)
	assert.Equal(t, 3.0, EvaluateRoyalMatch(two("2c 9c")).Odds)
	assert.False(t, EvaluateRoyalMatch(two("Kd Qs")).Win)
}

func TestLuckyLadies(t *testing.T) {
	tests := []struct {
		hand  string
		win   bool
		odds  float64
		label string
	}{
		{"Qh Qh", true, 200, "Queen of Hearts Pair"},
		{"Ks Kh", true, 10, "Matched 20"},
		{"Ks Ks", true, 25, "Suited 20"},
		{"Ts Js", true, 25, "Suited 20"},
		{"Ah 9c", true, 4, "Any 20"},
		{"Th Kc", true, 4, "Any 20"},
		{"Th 9c", false, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.hand, func(t *testing.T) {
			got := EvaluateLuckyLadies(two(tt.hand))
			assert.Equal(t, tt.win, got.Win)
			assert.Equal(t, tt.odds, got.Odds)
			assert.Equal(t, tt.label, got.Label)
		})
	}
}

func TestLuckySevens(t *testing.T) {
	tests := []struct {
		hand string
		odds float64
	}{
		{"7h 7c 7d", 500},
		{"7h 7h", 100},
		{"7h 7c", 50},
		{"7h 4c", 3},
		{"7h 7c 7d 7s", 500},
		{"8h 4c", 0},
	}
	for _, tt := range tests {
		t.Run(tt.hand, func(t *testing.T) {
			got := EvaluateLuckySevens(deck.MustParseCards(tt.hand))
			assert.Equal(t, tt.odds, got.Odds)
			assert.Equal(t, tt.odds > 0, got.Win)
		})
	}
}

func TestLuckySevensPayout(t *testing.T) {
	got := EvaluateLuckySevens(deck.MustParseCards("7♥ 7♣"))
	assert.Equal(t, 250, got.Payout(5))
}

func TestBuster(t *testing.T) {
	tests := []struct {
		dealer string
		win    bool
		odds   float64
	}{
		{"Ts 6h 8c", true, 2},
		{"2s 4h Tc 9d", true, 4},
		{"2s 2h 3c 5d Kd", true, 6},
		{"2s 2h 2c 2d 3s Ks", true, 250},
		{"As 2h 2c 2d 3s 4s 5s 4h", true, 250},
		{"Ts 7h", false, 0},
		{"Ts 6h 5c", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.dealer, func(t *testing.T) {
			got := EvaluateBuster(deck.MustParseCards(tt.dealer))
			assert.Equal(t, tt.win, got.Win)
			assert.Equal(t, tt.odds, got.Odds)
		})
	}
}

func TestEvaluateDispatch(t *testing.T) {
	player := deck.MustParseCards("7s 7s 5h")
	dealer := deck.MustParseCards("Ts 6h 8c")

	assert.Equal(t, 30.0, Evaluate(PerfectPairs, Input{Player: player}).Odds)
	assert.Equal(t, 3.0, Evaluate(RoyalMatch, Input{Player: player}).Odds)
	assert.False(t, Evaluate(LuckyLadies, Input{Player: player}).Win)
	assert.Equal(t, 100.0, Evaluate(LuckySevens, Input{Player: player}).Odds)
	assert.Equal(t, 2.0, Evaluate(Buster, Input{Dealer: dealer}).Odds)
	assert.False(t, Evaluate(PerfectPairs, Input{Player: player[:1]}).Win)
}

func TestPayout(t *testing.T) {
	assert.Equal(t, 0, Outcome{}.Payout(10))
	assert.Equal(t, 300, Outcome{Win: true, Odds: 30}.Payout(10))
}

func TestKinds(t *testing.T) {
	for _, k := range Kinds {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseKind("insurance")
	assert.Error(t, err)

	assert.True(t, PerfectPairs.ResolvesAfterDeal())
	assert.True(t, LuckyLadies.ResolvesAfterDeal())
	assert.False(t, LuckySevens.ResolvesAfterDeal())
	assert.False(t, Buster.ResolvesAfterDeal())
}
