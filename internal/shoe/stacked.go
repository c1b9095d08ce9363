package shoe

import "github.com/coltonswapp/hardway-blackjack/internal/deck"

// StackedSource is a deterministic randutil.Source for tests and replays.
// Its Shuffle moves Top to the front of a freshly built shoe in order and
// leaves the remaining cards in deck order. IntN always returns Pick
// (clamped to n-1).
type StackedSource struct {
	Top  []deck.Card
	Pick int
}

// Stack builds a StackedSource from card notation, e.g. "As Kh 7c".
func Stack(cards string) *StackedSource {
	return &StackedSource{Top: deck.MustParseCards(cards)}
}

// IntN implements randutil.Source.
func (s *StackedSource) IntN(n int) int {
	if s.Pick >= n {
		return n - 1
	}
	return s.Pick
}

// Shuffle implements randutil.Source. It assumes the n cards are whole
// decks in deck.Decks order, which is how the shoe builds them.
func (s *StackedSource) Shuffle(n int, swap func(i, j int)) {
	ids := deck.Decks(n / 52)
	for i, want := range s.Top {
		if i >= n {
			return
		}
		for j := i; j < len(ids); j++ {
			if ids[j] == want {
				swap(i, j)
				ids[i], ids[j] = ids[j], ids[i]
				break
			}
		}
	}
}
