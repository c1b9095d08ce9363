// Package simulator plays many independent blackjack sessions with a fixed
// policy and aggregates the per-round results.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coltonswapp/hardway-blackjack/internal/bonus"
	"github.com/coltonswapp/hardway-blackjack/internal/events"
	"github.com/coltonswapp/hardway-blackjack/internal/game"
	"github.com/coltonswapp/hardway-blackjack/internal/hand"
	"github.com/coltonswapp/hardway-blackjack/internal/randutil"
	"github.com/coltonswapp/hardway-blackjack/internal/session"
	"github.com/coltonswapp/hardway-blackjack/internal/shoe"
	"github.com/coltonswapp/hardway-blackjack/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// maxActions bounds the decisions in one round; a scripted round never
// gets close.
const maxActions = 64

// Config holds configuration for running simulations
type Config struct {
	Sessions        int
	Hands           int // Rounds per session; a session stops early when the bankroll runs out
	BaseBet         int
	SideBets        map[bonus.Kind]int
	StartingBalance int
	Decks           int
	Penetration     shoe.Penetration
	Seed            int64 // Session i uses Seed+i
	Workers         int
	Timeout         time.Duration // Whole run; zero means none
	Policy          Policy
	Sink            session.Sink // Optional; every session snapshot is saved here
	Logger          *log.Logger
}

// Report is the outcome of a simulation run.
type Report struct {
	Stats     *statistics.Statistics
	Sessions  []session.Snapshot // In session order
	Bankrupt  int                // Sessions that could no longer cover the base bet
	Policy    string
	Elapsed   time.Duration
	HandsPlan int
}

// Simulator runs blackjack session simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Policy == nil {
		config.Policy = Scripted{}
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.StartingBalance <= 0 {
		config.StartingBalance = game.DefaultBalance
	}
	if config.Decks == 0 {
		config.Decks = 6
	}
	return &Simulator{config: config}
}

type sessionResult struct {
	stats    *statistics.Statistics
	snap     session.Snapshot
	bankrupt bool
}

// Run plays every session, Workers at a time, and merges the results in
// session order so a seed always yields the same report.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	cfg := s.config
	if cfg.Sessions <= 0 || cfg.Hands <= 0 {
		return nil, fmt.Errorf("sessions and hands must be positive (got %d, %d)", cfg.Sessions, cfg.Hands)
	}
	if cfg.BaseBet <= 0 {
		return nil, fmt.Errorf("base bet must be positive (got %d)", cfg.BaseBet)
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	results := make([]sessionResult, cfg.Sessions)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range cfg.Sessions {
		g.Go(func() error {
			res, err := s.playSession(gctx, cfg.Seed+int64(i))
			if err != nil {
				return fmt.Errorf("session %d (seed %d): %w", i+1, cfg.Seed+int64(i), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Stats:     &statistics.Statistics{},
		Policy:    fmt.Sprintf("%T", cfg.Policy),
		HandsPlan: cfg.Hands,
	}
	for _, res := range results {
		report.Stats.Merge(res.stats)
		report.Sessions = append(report.Sessions, res.snap)
		if res.bankrupt {
			report.Bankrupt++
		}
	}
	report.Elapsed = time.Since(start)

	if err := report.Stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	cfg.Logger.Info("Simulation complete",
		"sessions", cfg.Sessions,
		"rounds", report.Stats.Hands,
		"bankrupt", report.Bankrupt,
		"elapsed", report.Elapsed)
	return report, nil
}

func (s *Simulator) playSession(ctx context.Context, seed int64) (sessionResult, error) {
	cfg := s.config
	sessionOpts := []session.Option{}
	if cfg.Sink != nil {
		sessionOpts = append(sessionOpts, session.WithSink(cfg.Sink))
	}
	// Engines log at warn and above.
	engineLogger := cfg.Logger.With("seed", seed)
	engineLogger.SetLevel(max(cfg.Logger.GetLevel(), log.WarnLevel))

	e := game.New(
		game.WithSource(randutil.New(seed)),
		game.WithDecks(cfg.Decks),
		game.WithPenetration(cfg.Penetration),
		game.WithStartingBalance(cfg.StartingBalance),
		game.WithLogger(engineLogger),
		game.WithSessionOptions(sessionOpts...),
	)

	res := sessionResult{stats: &statistics.Statistics{}}
	for range cfg.Hands {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if e.Phase() == game.GameOver {
			if r := e.NewHand(); !r.OK() {
				return res, r.Err
			}
		}
		if e.Wager().MainBet == 0 && e.Balance() < cfg.BaseBet {
			res.bankrupt = true
			break
		}
		result, err := PlayRound(e, cfg.Policy, cfg.BaseBet, cfg.SideBets)
		if err != nil {
			return res, err
		}
		result.Seed = seed
		res.stats.Add(result)
	}

	res.snap = e.Snapshot()
	if cfg.Sink != nil {
		if err := e.SaveSession(ctx); err != nil {
			return res, err
		}
	}
	cfg.Logger.Debug("Session finished", "seed", seed, "rounds", res.stats.Hands, "net", res.snap.Net())
	return res, nil
}

// ErrStuck is returned when a round does not reach GameOver.
var ErrStuck = errors.New("simulator: round did not finish")

// PlayRound plays one round on e, which must be waiting for a bet or ready
// to deal. The main bet is topped up to bet; side bets the balance cannot
// cover are skipped.
func PlayRound(e *game.Engine, p Policy, bet int, sideBets map[bonus.Kind]int) (statistics.HandResult, error) {
	var evs eventLog
	before := e.Bankroll()

	if current := e.Wager().MainBet; current < bet {
		if err := evs.take(e.PlaceBet(bet - current)); err != nil {
			return statistics.HandResult{}, err
		}
	}
	for _, kind := range slices.Sorted(maps.Keys(sideBets)) {
		amount := sideBets[kind]
		if amount <= 0 || amount > e.Balance() {
			continue
		}
		if err := evs.take(e.PlaceSideBet(kind, amount)); err != nil {
			return statistics.HandResult{}, err
		}
	}
	if err := evs.take(e.Ready()); err != nil {
		return statistics.HandResult{}, err
	}

	for steps := 0; e.Phase() == game.PlayerTurn; steps++ {
		if steps > maxActions {
			return statistics.HandResult{}, ErrStuck
		}
		if e.InsuranceAvailable() {
			if p.Insure(e.PlayerHand()) {
				if stake := min(e.Wager().MainBet/2, e.Balance()); stake > 0 {
					if err := evs.take(e.PlaceInsurance(stake)); err != nil {
						return statistics.HandResult{}, err
					}
				}
			}
			if err := evs.take(e.ContinueAfterInsuranceCheck()); err != nil {
				return statistics.HandResult{}, err
			}
			continue
		}

		actions := e.AvailableActions()
		if len(actions) == 0 {
			return statistics.HandResult{}, ErrStuck
		}
		h := e.PlayerHand()
		if split, ok := e.SplitHands(); ok {
			h = split.Hands[split.ActiveIndex]
		}
		if err := evs.take(act(e, p.Act(h, e.DealerCards()[0], actions))); err != nil {
			return statistics.HandResult{}, err
		}
	}
	if e.Phase() != game.GameOver {
		return statistics.HandResult{}, ErrStuck
	}

	result := evs.summarize()
	result.Net = float64(e.Bankroll() - before)
	return result, nil
}

func act(e *game.Engine, a game.Action) game.Result {
	switch a {
	case game.Hit:
		return e.Hit()
	case game.Double:
		return e.Double()
	case game.Split:
		return e.Split()
	default:
		return e.Stand()
	}
}

type eventLog []events.Event

func (l *eventLog) take(r game.Result) error {
	if r.Err != nil {
		return r.Err
	}
	*l = append(*l, r.Events...)
	return nil
}

func (l eventLog) summarize() statistics.HandResult {
	var out statistics.HandResult
	for _, ev := range l {
		switch ev := ev.(type) {
		case game.HandResolved:
			out.Wagered += ev.Bet
			if ev.HandIndex == 0 {
				out.Outcome = ev.Result
				out.DealerBJ = hand.IsBlackjack(ev.DealerCards)
			}
			if ev.PlayerTotal > hand.Blackjack {
				out.Busted = true
			}
		case game.PlayerActionChanged:
			if ev.Action == game.Double {
				out.Doubled = true
			}
		case game.SplitStateChanged:
			out.Split = out.Split || ev.IsSplit
		case game.InsuranceResolved:
			if ev.Stake > 0 {
				out.Insured = true
				out.Wagered += ev.Stake
				out.SideNet += float64(ev.Payout)
				if !ev.DealerBlackjack {
					out.SideNet -= float64(ev.Stake)
				}
			}
		case game.SideBetResolved:
			out.Wagered += ev.Stake
			out.SideNet += float64(ev.Payout - ev.Stake)
		}
	}
	return out
}
