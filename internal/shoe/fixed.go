package shoe

import (
	"fmt"

	"github.com/coltonswapp/hardway-blackjack/internal/deck"
)

// FixedHand names a canned opening deal used to exercise specific rules.
type FixedHand int

const (
	FixedPerfectPair FixedHand = iota
	FixedBlackjack
	FixedDealerBlackjack
	FixedDealerAce
	FixedSplitEights
	FixedLuckyLadies
	FixedRoyalMatch
	FixedLuckySevens
	FixedDoubleEleven
	FixedDealerSoft17
)

var fixedNames = map[FixedHand]string{
	FixedPerfectPair:     "perfect-pair",
	FixedBlackjack:       "blackjack",
	FixedDealerBlackjack: "dealer-blackjack",
	FixedDealerAce:       "dealer-ace",
	FixedSplitEights:     "split-eights",
	FixedLuckyLadies:     "lucky-ladies",
	FixedRoyalMatch:      "royal-match",
	FixedLuckySevens:     "lucky-sevens",
	FixedDoubleEleven:    "double-eleven",
	FixedDealerSoft17:    "dealer-soft-17",
}

func (f FixedHand) String() string {
	if name, ok := fixedNames[f]; ok {
		return name
	}
	return fmt.Sprintf("fixed(%d)", int(f))
}

// ParseFixedHand looks a canned deal up by name.
func ParseFixedHand(name string) (FixedHand, error) {
	for k, v := range fixedNames {
		if v == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown fixed hand %q", name)
}

// Deal is an opening deal in dealing order: player, dealer up, player,
// dealer hole.
type Deal struct {
	Player     [2]deck.Card
	DealerUp   deck.Card
	DealerHole deck.Card
}

func card(r deck.Rank, s deck.Suit) *deck.Card {
	c := deck.NewCard(r, s)
	return &c
}

// layouts hold the fixed cards in dealing order; nil positions are drawn.
var layouts = map[FixedHand][4]*deck.Card{
	FixedPerfectPair:     {card(deck.Seven, deck.Spades), nil, card(deck.Seven, deck.Spades), nil},
	FixedBlackjack:       {card(deck.Ace, deck.Spades), card(deck.Nine, deck.Clubs), card(deck.King, deck.Hearts), card(deck.Eight, deck.Diamonds)},
	FixedDealerBlackjack: {card(deck.Nine, deck.Spades), card(deck.Ace, deck.Clubs), card(deck.Eight, deck.Hearts), card(deck.King, deck.Spades)},
	FixedDealerAce:       {card(deck.Ten, deck.Spades), card(deck.Ace, deck.Diamonds), card(deck.Seven, deck.Hearts), card(deck.Six, deck.Clubs)},
	FixedSplitEights:     {card(deck.Eight, deck.Spades), card(deck.Six, deck.Diamonds), card(deck.Eight, deck.Hearts), nil},
	FixedLuckyLadies:     {card(deck.Queen, deck.Hearts), nil, card(deck.Queen, deck.Hearts), nil},
	FixedRoyalMatch:      {card(deck.King, deck.Diamonds), nil, card(deck.Queen, deck.Diamonds), nil},
	FixedLuckySevens:     {card(deck.Seven, deck.Hearts), nil, card(deck.Seven, deck.Clubs), nil},
	FixedDoubleEleven:    {card(deck.Six, deck.Spades), card(deck.Six, deck.Diamonds), card(deck.Five, deck.Hearts), nil},
	FixedDealerSoft17:    {card(deck.Ten, deck.Spades), card(deck.Six, deck.Hearts), card(deck.Eight, deck.Clubs), card(deck.Ace, deck.Spades)},
}

// DealFixedHand returns the canned deal for kind. Positions the layout does
// not fix are drawn from the shoe, so the remaining count stays honest.
func (m *Manager) DealFixedHand(kind FixedHand) Deal {
	layout, ok := layouts[kind]
	if !ok {
		panic(fmt.Sprintf("shoe: no layout for %v", kind))
	}

	var dealt [4]deck.Card
	for i, fixed := range layout {
		if fixed != nil {
			dealt[i] = *fixed
			continue
		}
		dealt[i] = m.Draw()
	}

	return Deal{
		Player:     [2]deck.Card{dealt[0], dealt[2]},
		DealerUp:   dealt[1],
		DealerHole: dealt[3],
	}
}

// DealInitial draws a regular opening deal.
func (m *Manager) DealInitial() Deal {
	p1 := m.Draw()
	up := m.Draw()
	p2 := m.Draw()
	hole := m.Draw()
	return Deal{Player: [2]deck.Card{p1, p2}, DealerUp: up, DealerHole: hole}
}
