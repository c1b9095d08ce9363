package game

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/coltonswapp/hardway-blackjack/internal/bonus"
	"github.com/coltonswapp/hardway-blackjack/internal/deck"
	"github.com/coltonswapp/hardway-blackjack/internal/events"
	"github.com/coltonswapp/hardway-blackjack/internal/hand"
	"github.com/coltonswapp/hardway-blackjack/internal/ledger"
	"github.com/coltonswapp/hardway-blackjack/internal/randutil"
	"github.com/coltonswapp/hardway-blackjack/internal/session"
	"github.com/coltonswapp/hardway-blackjack/internal/shoe"
)

// Result is returned by every intent.
type Result struct {
	Phase  Phase
	Err    error
	Events []events.Event
}

// OK reports whether the intent was accepted.
func (r Result) OK() bool { return r.Err == nil }

// Engine runs rounds of single-player blackjack. It is not safe for
// concurrent use.
type Engine struct {
	logger  *log.Logger
	pub     events.Publisher
	shoe    *shoe.Manager
	ledger  *ledger.Ledger
	tracker *session.Tracker

	phase        Phase
	player       HandState
	split        *SplitState
	dealer       []deck.Card
	holeRevealed bool
	natural      bool
	// extra is money staked this round outside the ledger's wager: double
	// downs and the second split hand.
	extra int

	insuranceOffered bool

	dealing bool
	pending []events.Event
}

// relay forwards shoe events through the engine so they are both published
// and returned in the intent's Result.
type relay struct{ e *Engine }

func (r relay) Publish(ev events.Event) { r.e.emit(ev) }

// New builds an engine with a freshly shuffled shoe.
func New(opts ...Option) *Engine {
	cfg := engineConfig{
		logger:      log.New(io.Discard),
		pub:         events.Discard,
		decks:       6,
		penetration: shoe.RandomPenetration(),
		balance:     DefaultBalance,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.src == nil {
		cfg.src = randutil.NewOrTime(0)
	}

	e := &Engine{
		logger: cfg.logger.WithPrefix("game"),
		pub:    cfg.pub,
		ledger: ledger.New(cfg.balance),
		phase:  WaitingForBet,
	}
	e.ledger.SetRebet(cfg.rebet)

	sessionOpts := append([]session.Option{session.WithLogger(cfg.logger)}, cfg.sessionOpts...)
	e.tracker = session.NewTracker(cfg.balance, sessionOpts...)
	e.shoe = shoe.NewManager(cfg.src,
		shoe.WithDecks(cfg.decks),
		shoe.WithPenetration(cfg.penetration),
		shoe.WithPublisher(relay{e}),
		shoe.WithLogger(cfg.logger))
	e.pending = nil

	e.tracker.Start()
	e.logger.Debug("Engine ready",
		"session", e.tracker.ID(),
		"balance", cfg.balance,
		"decks", e.shoe.DeckCount(),
		"penetration", e.shoe.Penetration())
	return e
}

// run executes one intent and collects the events it produced. Intents
// issued by subscribers while a deal is running are rejected.
func (e *Engine) run(name string, fn func() error) Result {
	if e.dealing {
		return Result{Phase: e.phase, Err: ErrDealInProgress}
	}

	outer := e.pending
	e.pending = nil
	err := fn()
	if err != nil {
		e.logger.Debug("Intent rejected", "intent", name, "phase", e.phase, "error", err)
	}
	r := Result{Phase: e.phase, Err: err, Events: e.pending}
	e.pending = outer
	return r
}

func (e *Engine) emit(ev events.Event) {
	e.pending = append(e.pending, ev)
	e.pub.Publish(ev)
}

func (e *Engine) transition(to Phase) {
	if !CanTransition(e.phase, to) {
		panic(fmt.Sprintf("game: illegal transition %s -> %s", e.phase, to))
	}
	from := e.phase
	e.phase = to
	e.logger.Debug("Phase changed", "from", from, "to", to)
	e.emit(PhaseChanged{From: from, To: to})
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// Balance returns the money not on the table.
func (e *Engine) Balance() int { return e.ledger.Balance() }

// Bankroll returns balance plus every stake on the table.
func (e *Engine) Bankroll() int { return e.ledger.Bankroll() + e.extra }

// Wager returns the bets on the table. Double and split stakes are carried
// on the hands instead.
func (e *Engine) Wager() ledger.Wager { return e.ledger.Wager() }

// Rebet returns the rebet setting.
func (e *Engine) Rebet() ledger.Rebet { return e.ledger.Rebet() }

// PlayerHand returns the unsplit player hand, or the first hand after a
// split.
func (e *Engine) PlayerHand() HandState {
	if e.split != nil {
		return e.split.Hands[0].clone()
	}
	return e.player.clone()
}

// SplitHands returns the split hands, if the round split.
func (e *Engine) SplitHands() (SplitState, bool) {
	if e.split == nil {
		return SplitState{}, false
	}
	return e.split.clone(), true
}

// Hand returns split hand i. It panics if the round has not split or i is
// not 0 or 1.
func (e *Engine) Hand(i int) HandState {
	if e.split == nil {
		panic("game: round has not split")
	}
	return e.split.Hand(i).clone()
}

// DealerCards returns the dealer cards the player can see.
func (e *Engine) DealerCards() []deck.Card {
	if len(e.dealer) >= 2 && !e.holeRevealed {
		return slices.Clone(e.dealer[:1])
	}
	return slices.Clone(e.dealer)
}

// DealerTotal returns the total of the visible dealer cards.
func (e *Engine) DealerTotal() int {
	visible := e.DealerCards()
	if len(visible) == 0 {
		return 0
	}
	return hand.Total(visible)
}

// HoleRevealed reports whether the dealer's hole card is face up.
func (e *Engine) HoleRevealed() bool { return e.holeRevealed }

// InsuranceAvailable reports whether the player may still insure.
func (e *Engine) InsuranceAvailable() bool { return e.insuranceOffered }

// AvailableActions lists the player actions the engine would accept now.
func (e *Engine) AvailableActions() []Action {
	if e.phase != PlayerTurn || e.insuranceOffered {
		return nil
	}
	h := e.activeHand()
	if h.Done() {
		return nil
	}
	actions := []Action{Hit, Stand}
	if h.canDouble() && e.ledger.Balance() >= h.Bet {
		actions = append(actions, Double)
	}
	if e.canSplit() && e.ledger.Balance() >= e.player.Bet {
		actions = append(actions, Split)
	}
	return actions
}

// DeckCount returns the number of decks in the shoe.
func (e *Engine) DeckCount() int { return e.shoe.DeckCount() }

// RemainingCards returns the physical cards left in the shoe.
func (e *Engine) RemainingCards() int { return e.shoe.Remaining() }

// RunningCount returns the Hi-Lo running count.
func (e *Engine) RunningCount() int { return e.shoe.RunningCount() }

// TrueCount returns the Hi-Lo true count.
func (e *Engine) TrueCount() int { return e.shoe.TrueCount() }

// ReshufflePending reports whether the cut card came out this shoe.
func (e *Engine) ReshufflePending() bool { return e.shoe.ReshufflePending() }

// Penetration returns the cut card policy.
func (e *Engine) Penetration() shoe.Penetration { return e.shoe.Penetration() }

// SideBet returns the stake on kind.
func (e *Engine) SideBet(kind bonus.Kind) int { return e.ledger.SideBet(kind) }

// Metrics returns the session counters.
func (e *Engine) Metrics() session.Metrics { return e.tracker.Metrics() }

// Snapshot returns the session so far. It is safe to call in any phase.
func (e *Engine) Snapshot() session.Snapshot { return e.tracker.Snapshot() }

// SaveSession hands the session snapshot to the configured sink.
func (e *Engine) SaveSession(ctx context.Context) error { return e.tracker.Save(ctx) }

// PauseSession stops the session clock, for example while the app is in
// the background.
func (e *Engine) PauseSession() { e.tracker.Pause() }

// ResumeSession restarts the session clock.
func (e *Engine) ResumeSession() { e.tracker.Resume() }
