package deck

import "testing"

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "letters",
			input: "As Kh Qd Jc",
			expected: []Card{
				{Rank: Ace, Suit: Spades},
				{Rank: King, Suit: Hearts},
				{Rank: Queen, Suit: Diamonds},
				{Rank: Jack, Suit: Clubs},
			},
		},
		{
			name:  "tens",
			input: "Ts 10h",
			expected: []Card{
				{Rank: Ten, Suit: Spades},
				{Rank: Ten, Suit: Hearts},
			},
		},
		{
			name:  "suit symbols",
			input: "7♥ 7♣",
			expected: []Card{
				{Rank: Seven, Suit: Hearts},
				{Rank: Seven, Suit: Clubs},
			},
		},
		{
			name:  "case insensitive",
			input: "aS kH",
			expected: []Card{
				{Rank: Ace, Suit: Spades},
				{Rank: King, Suit: Hearts},
			},
		},
		{
			name:    "invalid rank",
			input:   "Xs",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "Ax",
			wantErr: true,
		},
		{
			name:     "empty string",
			input:    "",
			expected: []Card{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCards() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("ParseCards() got %d cards, want %d", len(got), len(tt.expected))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("card %d = %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestCardString(t *testing.T) {
	if s := NewCard(Ten, Hearts).String(); s != "10♥" {
		t.Errorf("expected 10♥, got %s", s)
	}
	if s := NewCard(Ace, Spades).String(); s != "A♠" {
		t.Errorf("expected A♠, got %s", s)
	}
	if s := CutCard().String(); s != "CUT" {
		t.Errorf("expected CUT, got %s", s)
	}
}

func TestStandardDeckUnique(t *testing.T) {
	cards := Standard()
	if len(cards) != 52 {
		t.Fatalf("expected 52 cards, got %d", len(cards))
	}
	seen := make(map[Card]bool)
	for _, c := range cards {
		if seen[c] {
			t.Errorf("duplicate card %v", c)
		}
		seen[c] = true
	}
}

func TestColors(t *testing.T) {
	h := NewCard(Seven, Hearts)
	d := NewCard(Seven, Diamonds)
	c := NewCard(Seven, Clubs)

	if !SameColor(h, d) {
		t.Error("hearts and diamonds should share a colour")
	}
	if SameColor(h, c) {
		t.Error("hearts and clubs should not share a colour")
	}
	if Suited(h, d) {
		t.Error("hearts and diamonds are not suited")
	}
	if CutCard().IsAce() {
		t.Error("cut marker is not an ace")
	}
}
