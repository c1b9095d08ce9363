package game

import (
	"github.com/charmbracelet/log"
	"github.com/coltonswapp/hardway-blackjack/internal/events"
	"github.com/coltonswapp/hardway-blackjack/internal/ledger"
	"github.com/coltonswapp/hardway-blackjack/internal/randutil"
	"github.com/coltonswapp/hardway-blackjack/internal/session"
	"github.com/coltonswapp/hardway-blackjack/internal/shoe"
)

// DefaultBalance is the starting balance when none is configured.
const DefaultBalance = 1000

// Option configures an Engine during creation.
type Option func(*engineConfig)

type engineConfig struct {
	logger      *log.Logger
	pub         events.Publisher
	src         randutil.Source
	decks       int
	penetration shoe.Penetration
	balance     int
	rebet       ledger.Rebet
	sessionOpts []session.Option
}

// WithLogger sets the logger for the engine and the components it builds.
func WithLogger(logger *log.Logger) Option {
	return func(c *engineConfig) { c.logger = logger }
}

// WithBus sets where events are published.
func WithBus(pub events.Publisher) Option {
	return func(c *engineConfig) { c.pub = pub }
}

// WithSource sets the shuffle source. Without it the shoe is seeded from
// the current time.
func WithSource(src randutil.Source) Option {
	return func(c *engineConfig) { c.src = src }
}

// WithDecks sets the number of decks in the shoe.
func WithDecks(n int) Option {
	return func(c *engineConfig) { c.decks = n }
}

// WithPenetration sets the cut card policy.
func WithPenetration(p shoe.Penetration) Option {
	return func(c *engineConfig) { c.penetration = p }
}

// WithStartingBalance sets the player's starting balance.
func WithStartingBalance(balance int) Option {
	return func(c *engineConfig) { c.balance = balance }
}

// WithRebet sets the automatic rebet.
func WithRebet(r ledger.Rebet) Option {
	return func(c *engineConfig) { c.rebet = r }
}

// WithSessionOptions passes options to the session tracker, such as its
// clock or sink.
func WithSessionOptions(opts ...session.Option) Option {
	return func(c *engineConfig) { c.sessionOpts = append(c.sessionOpts, opts...) }
}
