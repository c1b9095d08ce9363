package shoe

import (
	"io"
	"math"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/coltonswapp/hardway-blackjack/internal/deck"
	"github.com/coltonswapp/hardway-blackjack/internal/events"
	"github.com/coltonswapp/hardway-blackjack/internal/randutil"
)

// MinCards is the physical card count below which a draw reshuffles first.
const MinCards = 6

// AllowedDeckCounts are the shoe sizes a table may use.
var AllowedDeckCounts = []int{1, 2, 4, 6}

// ValidDeckCount reports whether n is one of AllowedDeckCounts.
func ValidDeckCount(n int) bool {
	return slices.Contains(AllowedDeckCounts, n)
}

// Option configures a Manager during creation.
type Option func(*Manager)

// WithDecks sets the number of decks. Invalid counts are ignored.
func WithDecks(n int) Option {
	return func(m *Manager) {
		if ValidDeckCount(n) {
			m.decks = n
		}
	}
}

// WithPenetration sets the cut card policy. Invalid fractions are ignored.
func WithPenetration(p Penetration) Option {
	return func(m *Manager) {
		if p.Valid() {
			m.penetration = p
		}
	}
}

// WithPublisher sets where shuffle, cut and count events go.
func WithPublisher(pub events.Publisher) Option {
	return func(m *Manager) { m.pub = pub }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) { m.logger = logger.WithPrefix("shoe") }
}

// Manager exclusively owns the shoe and the running count.
type Manager struct {
	src         randutil.Source
	pub         events.Publisher
	logger      *log.Logger
	decks       int
	penetration Penetration

	shoe             *Shoe
	effective        float64
	running          int
	cutReached       bool
	reshufflePending bool
	shuffles         int
}

// NewManager builds and shuffles a shoe. The source is required so that
// shuffling is always explicit and reproducible in tests.
func NewManager(src randutil.Source, opts ...Option) *Manager {
	if src == nil {
		panic("shoe: random source is required")
	}
	m := &Manager{
		src:         src,
		pub:         events.Discard,
		logger:      log.New(io.Discard),
		decks:       6,
		penetration: RandomPenetration(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.BuildAndShuffle(m.decks)
	return m
}

// BuildAndShuffle replaces the shoe with decks×52 freshly shuffled cards and
// resets the count. A deck count outside AllowedDeckCounts keeps the
// previous count.
func (m *Manager) BuildAndShuffle(decks int) {
	if ValidDeckCount(decks) {
		m.decks = decks
	}

	switch {
	case m.penetration.IsFull():
		m.effective = 0
	case m.penetration.IsRandom():
		m.effective = RandomChoices[m.src.IntN(len(RandomChoices))]
	default:
		m.effective = m.penetration.Fraction()
	}

	m.shoe = newShoe(m.src, m.decks, m.effective)
	m.running = 0
	m.cutReached = false
	m.reshufflePending = false
	m.shuffles++

	m.logger.Debug("Shuffled shoe",
		"decks", m.decks,
		"cards", m.shoe.Physical(),
		"penetration", m.effective,
		"cutIndex", m.shoe.CutIndex())

	m.pub.Publish(ShuffleOccurred{CardCount: m.shoe.Physical()})
	m.pub.Publish(DeckCountChanged{Remaining: m.shoe.Physical()})
	m.pub.Publish(CountUpdated{Running: 0, True: 0})
}

// Draw removes and returns the next playing card. A short shoe is
// reshuffled first. Drawing the cut marker schedules a reshuffle for the
// end of the round and returns the card after it.
func (m *Manager) Draw() deck.Card {
	if m.shoe.Physical() < MinCards {
		m.logger.Debug("Shoe underflow, reshuffling", "remaining", m.shoe.Physical())
		m.BuildAndShuffle(m.decks)
	}

	c, _ := m.shoe.Pop()
	if c.CutMarker {
		if !m.cutReached {
			m.cutReached = true
			m.logger.Debug("Cut card reached", "remaining", m.shoe.Physical())
			m.pub.Publish(CutReached{})
		}
		m.reshufflePending = true
		return m.Draw()
	}

	m.pub.Publish(DeckCountChanged{Remaining: m.shoe.Physical()})
	return c
}

// Reveal applies the Hi-Lo weight of a card that just became visible to
// the player. Hole cards are revealed when turned over, not when drawn.
func (m *Manager) Reveal(c deck.Card) {
	m.running += HiLo(c)
	m.pub.Publish(CountUpdated{Running: m.running, True: m.TrueCount()})
}

// ReshuffleIfPending rebuilds the shoe if the cut card came out. Callers
// invoke it between rounds, never mid-hand.
func (m *Manager) ReshuffleIfPending() bool {
	if !m.reshufflePending {
		return false
	}
	m.BuildAndShuffle(m.decks)
	return true
}

// SetDeckCount rebuilds the shoe with n decks. A count outside
// AllowedDeckCounts is ignored.
func (m *Manager) SetDeckCount(n int) bool {
	if !ValidDeckCount(n) {
		return false
	}
	if n == m.decks {
		return true
	}
	m.BuildAndShuffle(n)
	return true
}

// SetPenetration changes the cut policy from the next shuffle on.
func (m *Manager) SetPenetration(p Penetration) bool {
	if !p.Valid() {
		return false
	}
	m.penetration = p
	return true
}

// HiLo returns the Hi-Lo weight of a card.
func HiLo(c deck.Card) int {
	switch {
	case c.CutMarker:
		return 0
	case c.Rank >= deck.Two && c.Rank <= deck.Six:
		return 1
	case c.Rank >= deck.Seven && c.Rank <= deck.Nine:
		return 0
	default:
		return -1
	}
}

// TrueCount returns the running count per remaining deck, at least one deck.
func (m *Manager) TrueCount() int {
	return TrueCount(m.running, m.shoe.Physical())
}

// TrueCount normalises a running count by max(1, remaining/52) decks.
func TrueCount(running, remaining int) int {
	decks := math.Max(1, float64(remaining)/52)
	return int(math.Round(float64(running) / decks))
}

// DeckCount returns the number of decks in the shoe.
func (m *Manager) DeckCount() int { return m.decks }

// Remaining returns the physical cards left.
func (m *Manager) Remaining() int { return m.shoe.Physical() }

// RunningCount returns the Hi-Lo running count.
func (m *Manager) RunningCount() int { return m.running }

// ReshufflePending reports whether the cut card has been drawn.
func (m *Manager) ReshufflePending() bool { return m.reshufflePending }

// CutReached reports whether the current shoe's cut card was drawn.
func (m *Manager) CutReached() bool { return m.cutReached }

// Penetration returns the configured cut policy.
func (m *Manager) Penetration() Penetration { return m.penetration }

// EffectivePenetration returns the fraction used for the current shoe, zero
// for a full shoe.
func (m *Manager) EffectivePenetration() float64 { return m.effective }

// CutIndex returns the draw position of the cut marker in the current shoe.
func (m *Manager) CutIndex() int { return m.shoe.CutIndex() }

// Shuffles returns how many times a shoe has been built.
func (m *Manager) Shuffles() int { return m.shuffles }
