package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Ten:
		return fmt.Sprintf("%d", int(r))
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Card represents a playing card. The cut marker is a non-playing card
// inserted into a shoe; its rank and suit are meaningless.
type Card struct {
	Rank      Rank
	Suit      Suit
	CutMarker bool
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// CutCard returns the shoe's cut marker.
func CutCard() Card {
	return Card{CutMarker: true}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	if c.CutMarker {
		return "CUT"
	}
	return c.Rank.String() + c.Suit.String()
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return !c.CutMarker && c.Rank == Ace
}

// IsFaceCard returns true if the card is a face card (J, Q, K)
func (c Card) IsFaceCard() bool {
	return !c.CutMarker && c.Rank >= Jack && c.Rank <= King
}

// Suited reports whether both cards share a suit.
func Suited(a, b Card) bool {
	return a.Suit == b.Suit
}

// SameColor reports whether both cards are the same colour.
func SameColor(a, b Card) bool {
	return a.IsRed() == b.IsRed()
}

// ParseCard parses a card such as "As", "Th", "10h" or "7♥".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Card{}, fmt.Errorf("empty card")
	}
	runes := []rune(s)
	suitRune := runes[len(runes)-1]
	rankStr := strings.ToUpper(string(runes[:len(runes)-1]))

	var rank Rank
	switch rankStr {
	case "A":
		rank = Ace
	case "K":
		rank = King
	case "Q":
		rank = Queen
	case "J":
		rank = Jack
	case "T", "10":
		rank = Ten
	default:
		if len(rankStr) != 1 || rankStr[0] < '2' || rankStr[0] > '9' {
			return Card{}, fmt.Errorf("invalid rank %q in %q", rankStr, s)
		}
		rank = Rank(rankStr[0] - '0')
	}

	var suit Suit
	switch suitRune {
	case 's', 'S', '♠':
		suit = Spades
	case 'h', 'H', '♥':
		suit = Hearts
	case 'd', 'D', '♦':
		suit = Diamonds
	case 'c', 'C', '♣':
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit %q in %q", string(suitRune), s)
	}

	return NewCard(rank, suit), nil
}

// ParseCards parses a whitespace separated list of cards, e.g. "As Kh 7c".
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for fixtures; it panics on malformed input.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}
