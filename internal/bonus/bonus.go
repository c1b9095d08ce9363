// Package bonus scores blackjack side bets against fixed paytables.
//
// Perfect Pairs, Royal Match and Lucky Ladies look at the player's first two
// cards and settle right after the deal. Lucky 7 looks at the player's final
// hand and Buster at the dealer's final hand, so both settle with the round.
package bonus

import (
	"fmt"
	"math"

	"github.com/coltonswapp/hardway-blackjack/internal/deck"
	"github.com/coltonswapp/hardway-blackjack/internal/hand"
)

// Kind identifies a side bet.
type Kind int

const (
	PerfectPairs Kind = iota
	RoyalMatch
	LuckyLadies
	LuckySevens
	Buster
)

// Kinds lists every side bet in display order.
var Kinds = []Kind{PerfectPairs, RoyalMatch, LuckyLadies, LuckySevens, Buster}

func (k Kind) String() string {
	switch k {
	case PerfectPairs:
		return "perfect_pairs"
	case RoyalMatch:
		return "royal_match"
	case LuckyLadies:
		return "lucky_ladies"
	case LuckySevens:
		return "lucky_7"
	case Buster:
		return "buster"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind looks a side bet up by its String name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown side bet %q", s)
}

// ResolvesAfterDeal reports whether the bet only needs the first two
// player cards.
func (k Kind) ResolvesAfterDeal() bool {
	return k == PerfectPairs || k == RoyalMatch || k == LuckyLadies
}

// Outcome is the result of scoring one side bet.
type Outcome struct {
	Win   bool
	Odds  float64
	Label string
}

// Payout returns the winnings (not including the returned stake) for a
// winning outcome, rounded down to whole units.
func (o Outcome) Payout(stake int) int {
	if !o.Win {
		return 0
	}
	return int(math.Floor(float64(stake) * o.Odds))
}

var lose = Outcome{}

func win(odds float64, label string) Outcome {
	return Outcome{Win: true, Odds: odds, Label: label}
}

// Input is what the evaluators may look at.
type Input struct {
	Player []deck.Card
	Dealer []deck.Card
}

// Evaluate scores kind against in. First-two-card bets need at least two
// player cards; Buster needs the dealer's final hand.
func Evaluate(kind Kind, in Input) Outcome {
	switch kind {
	case PerfectPairs, RoyalMatch, LuckyLadies:
		if len(in.Player) < 2 {
			return lose
		}
		a, b := in.Player[0], in.Player[1]
		switch kind {
		case PerfectPairs:
			return EvaluatePerfectPairs(a, b)
		case RoyalMatch:
			return EvaluateRoyalMatch(a, b)
		default:
			return EvaluateLuckyLadies(a, b)
		}
	case LuckySevens:
		return EvaluateLuckySevens(in.Player)
	case Buster:
		return EvaluateBuster(in.Dealer)
	default:
		return lose
	}
}

// EvaluatePerfectPairs: same rank and suit 30:1, same rank and colour 10:1,
// same rank different colour 5:1.
func EvaluatePerfectPairs(a, b deck.Card) Outcome {
	if a.Rank != b.Rank {
		return lose
	}
	switch {
	case deck.Suited(a, b):
		return win(30, "Perfect Pair")
	case deck.SameColor(a, b):
		return win(10, "Colored Pair")
	default:
		return win(5, "Mixed Pair")
	}
}

// EvaluateRoyalMatch: suited K+Q 25:1, any other suited pair 3:1.
func EvaluateRoyalMatch(a, b deck.Card) Outcome {
	if !deck.Suited(a, b) {
		return lose
	}
	if (a.Rank == deck.King && b.Rank == deck.Queen) || (a.Rank == deck.Queen && b.Rank == deck.King) {
		return win(25, "Royal Match")
	}
	return win(3, "Suited Match")
}

// EvaluateLuckyLadies scores a two-card 20. Every matching tier is
// considered and the best paying one wins.
func EvaluateLuckyLadies(a, b deck.Card) Outcome {
	pair := []deck.Card{a, b}
	if hand.Total(pair) != 20 {
		return lose
	}

	queenOfHearts := deck.NewCard(deck.Queen, deck.Hearts)
	candidates := []Outcome{win(4, "Any 20")}
	if a == queenOfHearts && b == queenOfHearts {
		candidates = append(candidates, win(200, "Queen of Hearts Pair"))
	}
	if a.Rank == b.Rank {
		candidates = append(candidates, win(10, "Matched 20"))
	}
	if deck.Suited(a, b) {
		candidates = append(candidates, win(25, "Suited 20"))
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Odds > best.Odds {
			best = c
		}
	}
	return best
}

// EvaluateLuckySevens scores sevens in the player's final hand.
func EvaluateLuckySevens(cards []deck.Card) Outcome {
	var sevens []deck.Card
	for _, c := range cards {
		if !c.CutMarker && c.Rank == deck.Seven {
			sevens = append(sevens, c)
		}
	}

	switch {
	case len(sevens) >= 3:
		return win(500, "Three Sevens")
	case len(sevens) == 2 && deck.Suited(sevens[0], sevens[1]):
		return win(100, "Suited Sevens")
	case len(sevens) == 2:
		return win(50, "Two Sevens")
	case len(sevens) == 1:
		return win(3, "One Seven")
	default:
		return lose
	}
}

// busterOdds is keyed by the dealer's final card count; six or more cards
// share the top tier.
var busterOdds = map[int]float64{
	3: 2,
	4: 4,
	5: 6,
	6: 250,
}

// EvaluateBuster wins only when the dealer's final hand busts.
func EvaluateBuster(dealer []deck.Card) Outcome {
	if !hand.IsBusted(dealer) {
		return lose
	}
	n := min(len(dealer), 6)
	odds, ok := busterOdds[n]
	if !ok {
		return lose
	}
	return win(odds, fmt.Sprintf("Dealer Busts with %d Cards", len(dealer)))
}
