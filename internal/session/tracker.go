// Package session accumulates per-session metrics and produces a
// serialisable snapshot that an injected Sink persists.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/coltonswapp/hardway-blackjack/internal/sessionid"
)

// ErrNoSink is returned by Save when no sink is configured.
var ErrNoSink = errors.New("session: no sink configured")

// Sink persists session snapshots.
type Sink interface {
	SaveSession(ctx context.Context, snap Snapshot) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, snap Snapshot) error

// SaveSession implements Sink.
func (f SinkFunc) SaveSession(ctx context.Context, snap Snapshot) error { return f(ctx, snap) }

// Result is how one player hand finished.
type Result int

const (
	Loss Result = iota
	Win
	Push
	BlackjackWin
)

func (r Result) String() string {
	switch r {
	case Win:
		return "win"
	case Push:
		return "push"
	case BlackjackWin:
		return "blackjack"
	default:
		return "loss"
	}
}

// Metrics are the session counters.
type Metrics struct {
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
	Pushes     int `json:"pushes"`
	Blackjacks int `json:"blackjacks"`
	Doubles    int `json:"doubles"`
	Splits     int `json:"splits"`
	Busts      int `json:"busts"`

	InsuranceTaken int `json:"insurance_taken"`
	InsuranceWon   int `json:"insurance_won"`
	SideBetsWon    int `json:"side_bets_won"`
	SideBetsLost   int `json:"side_bets_lost"`

	LargestBet        int     `json:"largest_bet"`
	LargestBetPercent float64 `json:"largest_bet_percent"`
	MaxConcurrentBets int     `json:"max_concurrent_bets"`

	// BetsBelowPreHand counts bets placed while the bankroll was below
	// its level at the previous deal.
	BetsBelowPreHand int `json:"bets_below_pre_hand"`
}

// Snapshot is the persisted form of a session.
type Snapshot struct {
	ID              string        `json:"id"`
	StartTime       time.Time     `json:"start_time"`
	Duration        time.Duration `json:"duration_ns"`
	StartingBalance int           `json:"starting_balance"`
	EndingBalance   int           `json:"ending_balance"`
	HandCount       int           `json:"hand_count"`
	BalanceHistory  []int         `json:"balance_history"`
	BetSizeHistory  []int         `json:"bet_size_history"`
	Metrics         Metrics       `json:"metrics"`
}

// Net returns ending minus starting balance.
func (s Snapshot) Net() int { return s.EndingBalance - s.StartingBalance }

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the clock used for session duration.
func WithClock(clock quartz.Clock) Option {
	return func(t *Tracker) { t.clock = clock }
}

// WithSink sets where Save writes snapshots.
func WithSink(sink Sink) Option {
	return func(t *Tracker) { t.sink = sink }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(t *Tracker) { t.logger = logger.WithPrefix("session") }
}

// WithID overrides the generated session id.
func WithID(id string) Option {
	return func(t *Tracker) { t.id = id }
}

// Tracker records what happens in a session. History is append-only.
type Tracker struct {
	clock  quartz.Clock
	sink   Sink
	logger *log.Logger

	id              string
	startTime       time.Time
	started         bool
	running         bool
	resumedAt       time.Time
	elapsed         time.Duration
	startingBalance int
	endingBalance   int

	balanceHistory []int
	betHistory     []int
	metrics        Metrics

	preHandBankroll int
	havePreHand     bool
}

// NewTracker returns a tracker for a session that starts with balance.
func NewTracker(balance int, opts ...Option) *Tracker {
	t := &Tracker{
		clock:           quartz.NewReal(),
		logger:          log.New(io.Discard),
		startingBalance: balance,
		endingBalance:   balance,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.id == "" {
		t.id = sessionid.New()
	}
	return t
}

// ID returns the session id.
func (t *Tracker) ID() string { return t.id }

// Start begins timing the session. Later calls are ignored.
func (t *Tracker) Start() {
	if t.started {
		return
	}
	now := t.clock.Now()
	t.started = true
	t.running = true
	t.startTime = now
	t.resumedAt = now
	t.logger.Debug("Session started", "id", t.id, "balance", t.startingBalance)
}

// Pause stops the session clock.
func (t *Tracker) Pause() {
	if !t.running {
		return
	}
	t.elapsed += t.clock.Since(t.resumedAt)
	t.running = false
}

// Resume restarts the session clock after Pause.
func (t *Tracker) Resume() {
	if !t.started || t.running {
		return
	}
	t.resumedAt = t.clock.Now()
	t.running = true
}

// Duration returns active session time, excluding pauses.
func (t *Tracker) Duration() time.Duration {
	d := t.elapsed
	if t.running {
		d += t.clock.Since(t.resumedAt)
	}
	return d
}

// HandStarted records the bankroll as the cards are dealt.
func (t *Tracker) HandStarted(bankroll int) {
	t.preHandBankroll = bankroll
	t.havePreHand = true
}

// BetPlaced records one placement. amount is the wager's total stake after
// the placement, so adding chips to a bet grows the same bet. bankroll is
// balance plus everything on the table after the bet went down.
func (t *Tracker) BetPlaced(amount, bankroll int) {
	if amount <= 0 {
		return
	}
	if amount > t.metrics.LargestBet {
		t.metrics.LargestBet = amount
		if bankroll > 0 {
			t.metrics.LargestBetPercent = float64(amount) / float64(bankroll) * 100
		}
	}
	if t.havePreHand && bankroll < t.preHandBankroll {
		t.metrics.BetsBelowPreHand++
		t.logger.Debug("Bet placed below pre-hand bankroll",
			"amount", amount, "bankroll", bankroll, "preHand", t.preHandBankroll)
	}
}

// ObserveConcurrentBets records how many stakes are down at once.
func (t *Tracker) ObserveConcurrentBets(n int) {
	t.metrics.MaxConcurrentBets = max(t.metrics.MaxConcurrentBets, n)
}

// RecordResult counts one finished player hand.
func (t *Tracker) RecordResult(r Result, busted bool) {
	switch r {
	case Win:
		t.metrics.Wins++
	case BlackjackWin:
		t.metrics.Wins++
		t.metrics.Blackjacks++
	case Push:
		t.metrics.Pushes++
	default:
		t.metrics.Losses++
	}
	if busted {
		t.metrics.Busts++
	}
}

// RecordDouble counts a double down.
func (t *Tracker) RecordDouble() { t.metrics.Doubles++ }

// RecordSplit counts a split.
func (t *Tracker) RecordSplit() { t.metrics.Splits++ }

// RecordInsurance counts an insurance bet and whether it paid.
func (t *Tracker) RecordInsurance(won bool) {
	t.metrics.InsuranceTaken++
	if won {
		t.metrics.InsuranceWon++
	}
}

// RecordSideBet counts a settled side bet.
func (t *Tracker) RecordSideBet(won bool) {
	if won {
		t.metrics.SideBetsWon++
	} else {
		t.metrics.SideBetsLost++
	}
}

// HandCompleted appends one history entry for a finished round.
func (t *Tracker) HandCompleted(balance, bet int) {
	t.balanceHistory = append(t.balanceHistory, balance)
	t.betHistory = append(t.betHistory, bet)
	t.endingBalance = balance
	t.logger.Debug("Hand recorded", "hand", len(t.balanceHistory), "balance", balance, "bet", bet)
}

// HandCount returns the number of completed hands.
func (t *Tracker) HandCount() int { return len(t.balanceHistory) }

// Metrics returns the current counters.
func (t *Tracker) Metrics() Metrics { return t.metrics }

// Snapshot returns a copy of the session so far.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		ID:              t.id,
		StartTime:       t.startTime,
		Duration:        t.Duration(),
		StartingBalance: t.startingBalance,
		EndingBalance:   t.endingBalance,
		HandCount:       len(t.balanceHistory),
		BalanceHistory:  slices.Clone(t.balanceHistory),
		BetSizeHistory:  slices.Clone(t.betHistory),
		Metrics:         t.metrics,
	}
}

// Save hands the current snapshot to the sink.
func (t *Tracker) Save(ctx context.Context) error {
	if t.sink == nil {
		return ErrNoSink
	}
	snap := t.Snapshot()
	if err := t.sink.SaveSession(ctx, snap); err != nil {
		return fmt.Errorf("save session %s: %w", t.id, err)
	}
	t.logger.Info("Session saved", "id", t.id, "hands", snap.HandCount, "net", snap.Net())
	return nil
}
