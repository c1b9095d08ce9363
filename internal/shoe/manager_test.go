package shoe

import (
	"testing"

	"github.com/coltonswapp/hardway-blackjack/internal/deck"
	"github.com/coltonswapp/hardway-blackjack/internal/events"
	"github.com/coltonswapp/hardway-blackjack/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunningCountFullDeckIsZero(t *testing.T) {
	t.Parallel()

	for _, decks := range AllowedDeckCounts {
		m := NewManager(randutil.New(int64(decks)), WithDecks(decks), WithPenetration(FullShoe()))
		for _, c := range m.shoe.cards {
			m.Reveal(c)
		}
		assert.Equal(t, 0, m.RunningCount(), "decks=%d", decks)

		m.running = 0
		for _, c := range deck.Standard() {
			m.Reveal(c)
		}
		assert.Equal(t, 0, m.RunningCount(), "single ordered deck")
	}
}

func TestHiLoWeights(t *testing.T) {
	plus, zero, minus := 0, 0, 0
	for _, c := range deck.Standard() {
		switch HiLo(c) {
		case 1:
			plus++
		case 0:
			zero++
		case -1:
			minus++
		}
	}
	assert.Equal(t, 20, plus)
	assert.Equal(t, 12, zero)
	assert.Equal(t, 20, minus)
	assert.Equal(t, 0, HiLo(deck.CutCard()))
}

func TestTrueCount(t *testing.T) {
	assert.Equal(t, 3, TrueCount(6, 104))
	assert.Equal(t, 5, TrueCount(5, 52))
	assert.Equal(t, 5, TrueCount(5, 10), "fewer than a deck left still divides by one")
	assert.Equal(t, -2, TrueCount(-5, 156))
}

func TestShoeEmptiesExactly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		decks       int
		penetration Penetration
		wantMarker  bool
	}{
		{"single deck full", 1, FullShoe(), false},
		{"two decks 75%", 2, FixedPercentage(0.75), true},
		{"six decks random", 6, RandomPenetration(), true},
		{"four decks 100%", 4, FixedPercentage(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(randutil.New(99), WithDecks(tt.decks), WithPenetration(tt.penetration))
			size := 52 * tt.decks
			want := size
			if tt.wantMarker {
				want++
			}

			s := m.shoe
			require.Equal(t, want, s.Len())
			require.Equal(t, size, s.Physical())

			markerAt := -1
			drawn := 0
			for {
				c, ok := s.Pop()
				if !ok {
					break
				}
				if c.CutMarker {
					require.Equal(t, -1, markerAt, "marker appears once")
					markerAt = drawn
				}
				drawn++
			}
			assert.Equal(t, want, drawn)
			assert.Equal(t, 0, s.Len())

			if tt.wantMarker {
				expected := int(float64(size) * m.EffectivePenetration())
				assert.Equal(t, expected, markerAt)
				assert.Equal(t, expected, m.CutIndex())
			} else {
				assert.Equal(t, -1, markerAt)
			}
		})
	}
}

func TestRandomPenetrationChoices(t *testing.T) {
	src := &StackedSource{Pick: 3}
	m := NewManager(src, WithDecks(1), WithPenetration(RandomPenetration()))
	assert.Equal(t, 0.75, m.EffectivePenetration())
	assert.Equal(t, 39, m.CutIndex())

	src.Pick = 0
	m.BuildAndShuffle(1)
	assert.Equal(t, 0.5, m.EffectivePenetration())
	assert.Equal(t, 26, m.CutIndex())
}

func TestBuildAndShuffleUnique(t *testing.T) {
	m := NewManager(randutil.New(5), WithDecks(2), WithPenetration(FullShoe()))
	counts := make(map[deck.Card]int)
	for _, c := range m.shoe.cards {
		counts[c]++
	}
	assert.Len(t, counts, 52)
	for c, n := range counts {
		assert.Equal(t, 2, n, "card %v", c)
	}
}

func TestCutCardDefersReshuffle(t *testing.T) {
	rec := &events.Recorder{}
	bus := events.NewBus()
	bus.Subscribe(rec)

	m := NewManager(&StackedSource{}, WithDecks(1), WithPenetration(FixedPercentage(0.5)), WithPublisher(bus))
	rec.Reset()

	for i := 0; i < 26; i++ {
		c := m.Draw()
		require.False(t, c.CutMarker)
	}
	assert.False(t, m.ReshufflePending())
	assert.Empty(t, rec.OfType(EventTypeCutReached))

	c := m.Draw()
	assert.False(t, c.CutMarker, "the marker is never returned")
	assert.True(t, m.ReshufflePending())
	assert.True(t, m.CutReached())
	assert.Len(t, rec.OfType(EventTypeCutReached), 1)
	assert.Equal(t, 25, m.Remaining(), "no reshuffle mid-round")

	m.Draw()
	assert.Len(t, rec.OfType(EventTypeCutReached), 1, "cut fires once per shoe")

	assert.True(t, m.ReshuffleIfPending())
	assert.Equal(t, 52, m.Remaining())
	assert.False(t, m.ReshufflePending())
	assert.False(t, m.ReshuffleIfPending())
	assert.Equal(t, 0, m.RunningCount())
}

func TestDrawReshufflesShortShoe(t *testing.T) {
	rec := &events.Recorder{}
	bus := events.NewBus()
	bus.Subscribe(rec)

	m := NewManager(randutil.New(3), WithDecks(1), WithPenetration(FullShoe()), WithPublisher(bus))
	for m.Remaining() >= MinCards {
		m.Draw()
	}
	rec.Reset()
	require.Equal(t, MinCards-1, m.Remaining())

	m.Draw()
	shuffles := rec.OfType(EventTypeShuffleOccurred)
	require.Len(t, shuffles, 1)
	assert.Equal(t, 52, shuffles[0].(ShuffleOccurred).CardCount)
	assert.Equal(t, 51, m.Remaining())
}

func TestRevealPublishesCount(t *testing.T) {
	rec := &events.Recorder{}
	bus := events.NewBus()
	bus.Subscribe(rec)
	m := NewManager(randutil.New(1), WithDecks(1), WithPenetration(FullShoe()), WithPublisher(bus))
	rec.Reset()

	m.Reveal(deck.NewCard(deck.Five, deck.Hearts))
	m.Reveal(deck.NewCard(deck.Six, deck.Hearts))

	updates := rec.OfType(EventTypeCountUpdated)
	require.Len(t, updates, 2)
	assert.Equal(t, CountUpdated{Running: 2, True: 2}, updates[1])
}

func TestSetDeckCountIgnoresInvalid(t *testing.T) {
	m := NewManager(randutil.New(1), WithDecks(2))
	assert.False(t, m.SetDeckCount(3))
	assert.Equal(t, 2, m.DeckCount())

	assert.True(t, m.SetDeckCount(4))
	assert.Equal(t, 4, m.DeckCount())
	assert.Equal(t, 208, m.Remaining())

	m.BuildAndShuffle(5)
	assert.Equal(t, 4, m.DeckCount())
}

func TestSetPenetration(t *testing.T) {
	m := NewManager(randutil.New(1), WithDecks(1), WithPenetration(FullShoe()))
	assert.False(t, m.SetPenetration(FixedPercentage(1.5)))
	assert.True(t, m.Penetration().IsFull())
	assert.True(t, m.SetPenetration(FixedPercentage(0.6)))
	m.BuildAndShuffle(1)
	assert.Equal(t, 31, m.CutIndex())
}

func TestNewManagerRequiresSource(t *testing.T) {
	assert.Panics(t, func() { NewManager(nil) })
}

func TestDealFixedHand(t *testing.T) {
	m := NewManager(&StackedSource{}, WithDecks(1), WithPenetration(FullShoe()))

	d := m.DealFixedHand(FixedLuckySevens)
	assert.Equal(t, deck.MustParseCards("7h 7c"), d.Player[:])
	// Unfixed positions come off the ordered shoe.
	assert.Equal(t, deck.NewCard(deck.Two, deck.Spades), d.DealerUp)
	assert.Equal(t, deck.NewCard(deck.Three, deck.Spades), d.DealerHole)
	assert.Equal(t, 50, m.Remaining())

	d = m.DealFixedHand(FixedBlackjack)
	assert.Equal(t, deck.MustParseCards("As Kh"), d.Player[:])
	assert.Equal(t, 50, m.Remaining(), "fully fixed deals draw nothing")
}

func TestParseFixedHand(t *testing.T) {
	k, err := ParseFixedHand("split-eights")
	require.NoError(t, err)
	assert.Equal(t, FixedSplitEights, k)
	assert.Equal(t, "split-eights", k.String())

	_, err = ParseFixedHand("nope")
	assert.Error(t, err)
}

func TestStackedSource(t *testing.T) {
	m := NewManager(Stack("Ah Kd 7c"), WithDecks(2), WithPenetration(FullShoe()))
	assert.Equal(t, deck.MustParseCards("Ah")[0], m.Draw())
	assert.Equal(t, deck.MustParseCards("Kd")[0], m.Draw())
	assert.Equal(t, deck.MustParseCards("7c")[0], m.Draw())
}
