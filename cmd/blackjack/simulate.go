package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/coltonswapp/hardway-blackjack/internal/bonus"
	"github.com/coltonswapp/hardway-blackjack/internal/simulator"
)

// SimulateCmd runs batch sessions with a scripted player.
type SimulateCmd struct {
	Sessions int           `short:"n" help:"Number of sessions (overrides config)"`
	Hands    int           `help:"Rounds per session (overrides config)"`
	Workers  int           `short:"w" help:"Sessions run in parallel (overrides config)"`
	Bet      int           `help:"Base bet per round (overrides config)"`
	Seed     int64         `help:"First session seed; 0 uses config, then the clock"`
	Policy   string        `default:"scripted" enum:"scripted,insure" help:"Player policy: scripted or insure"`
	Side     []string      `help:"Side bets as kind=amount, e.g. lucky_7=5" sep:","`
	Save     bool          `help:"Save every session snapshot to the configured store"`
	Timeout  time.Duration `default:"10m" help:"Abort the run after this long"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	sim := cfg.Simulation
	if c.Sessions > 0 {
		sim.Sessions = c.Sessions
	}
	if c.Hands > 0 {
		sim.Hands = c.Hands
	}
	if c.Workers > 0 {
		sim.Workers = c.Workers
	}
	if c.Bet > 0 {
		sim.BaseBet = c.Bet
	}
	seed := c.Seed
	if seed == 0 {
		seed = sim.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sides, err := parseSideBets(c.Side)
	if err != nil {
		return err
	}
	policy, ok := simulator.PolicyByName(c.Policy)
	if !ok {
		return fmt.Errorf("unknown policy %q", c.Policy)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	simCfg := simulator.Config{
		Sessions:        sim.Sessions,
		Hands:           sim.Hands,
		BaseBet:         sim.BaseBet,
		SideBets:        sides,
		StartingBalance: cfg.Table.StartingBalance,
		Decks:           cfg.Table.Decks,
		Penetration:     cfg.Penetration(),
		Seed:            seed,
		Workers:         sim.Workers,
		Timeout:         c.Timeout,
		Policy:          policy,
		Logger:          logger,
	}
	if c.Save {
		store, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
			simCfg.Sink = store
		}
	}

	logger.Info("Starting simulation",
		"sessions", simCfg.Sessions,
		"hands", simCfg.Hands,
		"bet", simCfg.BaseBet,
		"decks", simCfg.Decks,
		"penetration", simCfg.Penetration,
		"seed", seed,
		"workers", simCfg.Workers)

	report, err := simulator.New(simCfg).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(" Blackjack simulation "))
	simulator.WriteSummary(os.Stdout, report)
	edge := report.Stats.HouseEdge() * 100
	style := lossStyle
	if edge < 0 {
		style = winStyle
	}
	fmt.Println(style.Render(printer.Sprintf("Player result: %.3f%% of %d units wagered (seed %d)", -edge, report.Stats.Wagered, seed)))
	return nil
}

// parseSideBets reads kind=amount pairs.
func parseSideBets(specs []string) (map[bonus.Kind]int, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make(map[bonus.Kind]int, len(specs))
	for _, spec := range specs {
		name, value, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("side bet %q: want kind=amount", spec)
		}
		kind, err := bonus.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		amount, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || amount <= 0 {
			return nil, fmt.Errorf("side bet %q: amount must be a positive integer", spec)
		}
		out[kind] = amount
	}
	return out, nil
}
