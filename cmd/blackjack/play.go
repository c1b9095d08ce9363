package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/coltonswapp/hardway-blackjack/internal/bonus"
	"github.com/coltonswapp/hardway-blackjack/internal/deck"
	"github.com/coltonswapp/hardway-blackjack/internal/events"
	"github.com/coltonswapp/hardway-blackjack/internal/game"
	"github.com/coltonswapp/hardway-blackjack/internal/ledger"
	"github.com/coltonswapp/hardway-blackjack/internal/randutil"
	"github.com/coltonswapp/hardway-blackjack/internal/session"
	"github.com/coltonswapp/hardway-blackjack/internal/shoe"
)

// PlayCmd plays an interactive session driven by lines on stdin.
type PlayCmd struct {
	Balance     int    `help:"Starting balance (overrides config)"`
	Decks       int    `help:"Decks in the shoe: 1, 2, 4 or 6 (overrides config)"`
	Penetration string `help:"Cut card: full, random or a fraction such as 0.75 (overrides config)"`
	Rebet       *int   `help:"Rebet amount each hand, 0 to disable (overrides config)"`
	Seed        int64  `help:"Shuffle seed (0 for random)"`
	ShowCount   bool   `help:"Print the Hi-Lo count as cards are revealed"`
	ShowShoe    bool   `default:"true" negatable:"" help:"Print shuffles and the cut card"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	if c.Balance > 0 {
		cfg.Table.StartingBalance = c.Balance
	}
	if c.Decks > 0 {
		cfg.SetDecks(c.Decks)
	}
	if c.Penetration != "" {
		cfg.Table.Penetration = c.Penetration
	}
	if c.Rebet != nil {
		cfg.Table.RebetAmount = *c.Rebet
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	sessionOpts := []session.Option{}
	if store != nil {
		defer store.Close()
		sessionOpts = append(sessionOpts, session.WithSink(store))
	}

	bus := events.NewBus()
	engine := game.New(
		game.WithLogger(logger),
		game.WithBus(bus),
		game.WithSource(randutil.NewOrTime(c.Seed)),
		game.WithDecks(cfg.Table.Decks),
		game.WithPenetration(cfg.Penetration()),
		game.WithStartingBalance(cfg.Table.StartingBalance),
		game.WithRebet(cfg.Rebet()),
		game.WithSessionOptions(sessionOpts...),
	)

	fmt.Println(titleStyle.Render(" ♠ ♥ Blackjack ♦ ♣ "))
	r := newREPL(engine, bus, os.Stdout, logger, game.FormattingOptions{
		ShowCount: c.ShowCount,
		ShowShoe:  c.ShowShoe,
	})
	return r.run(ctx, os.Stdin)
}

// repl reads one command per line and applies it to the engine. Engine
// events are printed as they are published.
type repl struct {
	engine *game.Engine
	out    io.Writer
	logger *log.Logger
	format *game.EventFormatter
}

func newREPL(e *game.Engine, bus events.Bus, out io.Writer, logger *log.Logger, opts game.FormattingOptions) *repl {
	r := &repl{
		engine: e,
		out:    out,
		logger: logger,
		format: game.NewEventFormatter(opts),
	}
	bus.Subscribe(events.SubscriberFunc(r.onEvent))
	return r
}

func (r *repl) onEvent(ev events.Event) {
	if text, ok := r.format.Format(ev); ok {
		fmt.Fprintln(r.out, styleFor(ev).Render(text))
	}
}

// run processes commands until quit, end of input or ctx is cancelled, and
// then saves the session.
func (r *repl) run(parent context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	r.printf("Type 'help' for commands.\n")
	r.prompt()
	for {
		select {
		case <-ctx.Done():
			r.printf("\n")
			return r.finish(context.WithoutCancel(ctx))
		case line, ok := <-lines:
			if !ok {
				return r.finish(ctx)
			}
			if quit := r.exec(ctx, line); quit {
				return r.finish(ctx)
			}
			r.prompt()
		}
	}
}

func (r *repl) finish(ctx context.Context) error {
	r.engine.PauseSession()
	r.printStats()
	saved, err := saveSession(ctx, r.engine.SaveSession)
	if err != nil {
		return err
	}
	if saved {
		r.printf("Session %s saved.\n", r.engine.Snapshot().ID)
	}
	return nil
}

func (r *repl) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *repl) prompt() {
	e := r.engine
	status := fmt.Sprintf("[%s] balance %s bet %s", e.Phase(), money(e.Balance()), money(e.Wager().MainBet))
	fmt.Fprint(r.out, promptStyle.Render(status)+" > ")
}

// exec runs one command line and reports whether the user asked to quit.
func (r *repl) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]
	e := r.engine

	var res game.Result
	switch cmd {
	case "quit", "q", "exit":
		return true
	case "help", "?":
		r.help()
		return false
	case "status":
		r.showTable()
		return false
	case "stats":
		r.printStats()
		return false
	case "save":
		saved, err := saveSession(ctx, e.SaveSession)
		switch {
		case err != nil:
			r.fail(err)
		case saved:
			r.printf("Session %s saved.\n", e.Snapshot().ID)
		default:
			r.printf("Storage is disabled.\n")
		}
		return false
	case "pause":
		e.PauseSession()
		return false
	case "resume":
		e.ResumeSession()
		return false

	case "bet", "b":
		n, ok := r.amount(args, 0)
		if !ok {
			return false
		}
		res = e.PlaceBet(n)
	case "remove":
		n, ok := r.amount(args, 0)
		if !ok {
			return false
		}
		res = e.RemoveBet(n)
	case "side":
		if len(args) != 2 {
			r.printf("usage: side <%s> <amount>\n", kindNames())
			return false
		}
		kind, err := bonus.ParseKind(args[0])
		if err != nil {
			r.fail(err)
			return false
		}
		n, ok := r.amount(args, 1)
		if !ok {
			return false
		}
		res = e.PlaceSideBet(kind, n)
	case "unside":
		if len(args) != 1 {
			r.printf("usage: unside <%s>\n", kindNames())
			return false
		}
		kind, err := bonus.ParseKind(args[0])
		if err != nil {
			r.fail(err)
			return false
		}
		res = e.RemoveSideBet(kind)
	case "deal":
		res = e.Ready()
	case "fixed":
		if len(args) != 1 {
			r.printf("usage: fixed <name>\n")
			return false
		}
		kind, err := shoe.ParseFixedHand(args[0])
		if err != nil {
			r.fail(err)
			return false
		}
		res = e.DealFixed(kind)
	case "hit", "h":
		res = e.Hit()
	case "stand", "s":
		res = e.Stand()
	case "double", "d":
		res = e.Double()
	case "split", "p":
		res = e.Split()
	case "insure", "i":
		n := e.Wager().MainBet / 2
		if len(args) > 0 {
			var ok bool
			if n, ok = r.amount(args, 0); !ok {
				return false
			}
		}
		res = e.PlaceInsurance(n)
		if res.OK() {
			res = e.ContinueAfterInsuranceCheck()
		}
	case "continue", "c", "no":
		res = e.ContinueAfterInsuranceCheck()
	case "next", "n":
		res = e.NewHand()
	case "decks":
		n, ok := r.amount(args, 0)
		if !ok {
			return false
		}
		res = e.SetDeckCount(n)
		if res.OK() && e.DeckCount() != n {
			r.printf("Deck count must be 1, 2, 4 or 6; keeping %d.\n", e.DeckCount())
		}
	case "pen", "penetration":
		if len(args) != 1 {
			r.printf("usage: pen <full|random|fraction>\n")
			return false
		}
		p, err := shoe.ParsePenetration(args[0])
		if err != nil {
			r.fail(err)
			return false
		}
		res = e.SetPenetration(p)
	case "rebet":
		if len(args) == 1 && args[0] == "off" {
			res = e.SetRebet(ledger.Rebet{})
			break
		}
		n, ok := r.amount(args, 0)
		if !ok {
			return false
		}
		res = e.SetRebet(ledger.Rebet{Enabled: true, Amount: n})
	default:
		r.printf("Unknown command %q. Type 'help'.\n", cmd)
		return false
	}

	if !res.OK() {
		r.fail(res.Err)
		return false
	}
	switch res.Phase {
	case game.PlayerTurn, game.GameOver:
		r.showTable()
	}
	return false
}

func (r *repl) amount(args []string, i int) (int, bool) {
	if i >= len(args) {
		r.printf("missing amount\n")
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(args[i], "$"))
	if err != nil {
		r.printf("invalid amount %q\n", args[i])
		return 0, false
	}
	return n, true
}

func (r *repl) fail(err error) {
	fmt.Fprintln(r.out, errorStyle.Render("✗ "+err.Error()))
}

func (r *repl) showTable() {
	e := r.engine
	dealer := cardList(e.DealerCards())
	if !e.HoleRevealed() && len(e.DealerCards()) > 0 {
		dealer += " ??"
	}
	r.printf("Dealer: %s", cardStyle.Render(dealer))
	if e.HoleRevealed() {
		r.printf(" = %d", e.DealerTotal())
	}
	r.printf("\n")

	if split, ok := e.SplitHands(); ok {
		for i, h := range split.Hands {
			marker := " "
			if i == split.ActiveIndex && e.Phase() == game.PlayerTurn {
				marker = "›"
			}
			r.printf("%s Hand %d: %s = %d (%s)\n", marker, i+1, cardStyle.Render(cardList(h.Cards)), h.Total(), money(h.Bet))
		}
	} else if h := e.PlayerHand(); len(h.Cards) > 0 {
		r.printf("You:    %s = %d (%s)\n", cardStyle.Render(cardList(h.Cards)), h.Total(), money(h.Bet))
	}

	if actions := e.AvailableActions(); len(actions) > 0 {
		names := make([]string, len(actions))
		for i, a := range actions {
			names[i] = a.String()
		}
		r.printf("%s\n", infoStyle.Render("Actions: "+strings.Join(names, ", ")))
	}
	if e.InsuranceAvailable() {
		r.printf("%s\n", infoStyle.Render("Insurance? 'insure [amount]' or 'no'"))
	}
	if e.Phase() == game.GameOver {
		r.printf("%s\n", infoStyle.Render(fmt.Sprintf("Balance %s. 'next' for a new hand.", money(e.Balance()))))
	}
}

func (r *repl) printStats() {
	e := r.engine
	snap := e.Snapshot()
	m := snap.Metrics
	r.printf("Session %s: %d hands in %s, net %s\n", snap.ID, snap.HandCount, snap.Duration.Round(1e9), money(snap.Net()))
	r.printf("  W/L/P %d/%d/%d, blackjacks %d, doubles %d, splits %d, busts %d\n",
		m.Wins, m.Losses, m.Pushes, m.Blackjacks, m.Doubles, m.Splits, m.Busts)
	r.printf("  insurance %d/%d won, side bets %d won %d lost, largest bet %s (%.1f%%)\n",
		m.InsuranceWon, m.InsuranceTaken, m.SideBetsWon, m.SideBetsLost, money(m.LargestBet), m.LargestBetPercent)
	r.printf("  shoe: %d decks, %d cards left, running %+d, true %+d\n",
		e.DeckCount(), e.RemainingCards(), e.RunningCount(), e.TrueCount())
}

func (r *repl) help() {
	r.printf(`Betting:   bet N, remove N, side KIND N, unside KIND, rebet N|off
Dealing:   deal, fixed NAME, next
Playing:   hit (h), stand (s), double (d), split (p)
Insurance: insure [N], no
Table:     decks N, pen full|random|0.75, status, stats
Session:   pause, resume, save, quit
Side bets: %s
`, kindNames())
}

func kindNames() string {
	names := make([]string, len(bonus.Kinds))
	for i, k := range bonus.Kinds {
		names[i] = k.String()
	}
	return strings.Join(names, "|")
}

func cardList(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
