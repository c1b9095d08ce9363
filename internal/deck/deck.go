package deck

// Standard returns an ordered 52-card deck.
func Standard() []Card {
	cards := make([]Card, 0, 52)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// Decks returns n ordered standard decks back to back.
func Decks(n int) []Card {
	cards := make([]Card, 0, 52*n)
	for i := 0; i < n; i++ {
		cards = append(cards, Standard()...)
	}
	return cards
}
