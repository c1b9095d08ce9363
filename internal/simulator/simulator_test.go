package simulator

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coltonswapp/hardway-blackjack/internal/bonus"
	"github.com/coltonswapp/hardway-blackjack/internal/deck"
	"github.com/coltonswapp/hardway-blackjack/internal/game"
	"github.com/coltonswapp/hardway-blackjack/internal/session"
	"github.com/coltonswapp/hardway-blackjack/internal/shoe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func stackedEngine(t *testing.T, cards string) *game.Engine {
	t.Helper()
	return game.New(
		game.WithSource(shoe.Stack(cards)),
		game.WithDecks(1),
		game.WithPenetration(shoe.FullShoe()),
		game.WithStartingBalance(200),
		game.WithLogger(quietLogger()),
		game.WithSessionOptions(session.WithID("sim-test")),
	)
}

func TestScriptedPolicy(t *testing.T) {
	all := []game.Action{game.Hit, game.Stand, game.Double, game.Split}
	up := deck.NewCard(deck.Nine, deck.Hearts)

	tests := []struct {
		cards   string
		actions []game.Action
		want    game.Action
	}{
		{"8s 8d", all, game.Split},
		{"As Ad", all, game.Split},
		{"Ts Td", all, game.Stand},
		{"5s 5d", all, game.Double},
		{"6s 5d", all, game.Double},
		{"6s 5d", []game.Action{game.Hit, game.Stand}, game.Hit},
		{"8s 8d", []game.Action{game.Hit, game.Stand}, game.Hit},
		{"9s 7d", all, game.Hit},
		{"Ts 7d", all, game.Stand},
		{"As 6d", all, game.Stand},
		{"2s 3d 4c", []game.Action{game.Hit, game.Stand}, game.Hit},
	}
	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			h := game.HandState{Cards: deck.MustParseCards(tt.cards)}
			assert.Equal(t, tt.want, Scripted{}.Act(h, up, tt.actions))
		})
	}

	assert.False(t, Scripted{}.Insure(game.HandState{}))
	assert.True(t, AlwaysInsure{}.Insure(game.HandState{}))
}

func TestPolicyByName(t *testing.T) {
	p, ok := PolicyByName("scripted")
	require.True(t, ok)
	assert.IsType(t, Scripted{}, p)

	p, ok = PolicyByName("insure")
	require.True(t, ok)
	assert.IsType(t, AlwaysInsure{}, p)

	_, ok = PolicyByName("card-counter")
	assert.False(t, ok)
}

func TestPlayRoundPush(t *testing.T) {
	// Player T 7 against dealer 9 8.
	e := stackedEngine(t, "Ts 9h 7d 8c")

	result, err := PlayRound(e, Scripted{}, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, game.GameOver, e.Phase())
	assert.Equal(t, session.Push, result.Outcome)
	assert.Equal(t, 0.0, result.Net)
	assert.Equal(t, 10, result.Wagered)
	assert.False(t, result.Doubled)
}

func TestPlayRoundDoubleWin(t *testing.T) {
	// Player 5 6 doubles into a ten against dealer 9 8.
	e := stackedEngine(t, "5s 9h 6d 8c Ts")

	result, err := PlayRound(e, Scripted{}, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, session.Win, result.Outcome)
	assert.True(t, result.Doubled)
	assert.Equal(t, 20.0, result.Net)
	assert.Equal(t, 20, result.Wagered)
	assert.Equal(t, 220, e.Bankroll())
}

func TestPlayRoundSideBetAndInsurance(t *testing.T) {
	// Player 7 7 against an ace up with no blackjack underneath; the
	// player hits 14 into 21 with the seven of spades.
	e := stackedEngine(t, "7h As 7c 9d 7s")

	result, err := PlayRound(e, AlwaysInsure{}, 10, map[bonus.Kind]int{bonus.LuckySevens: 5})
	require.NoError(t, err)

	assert.True(t, result.Insured)
	assert.Equal(t, session.Win, result.Outcome)
	// Main +10, insurance -5, three sevens 5×500.
	assert.Equal(t, 10.0-5+2500, result.Net)
	assert.Equal(t, -5.0+2500, result.SideNet)
	assert.Equal(t, 10+5+5, result.Wagered)
}

func TestPlayRoundNeedsBettingPhase(t *testing.T) {
	e := stackedEngine(t, "Ts 9h 7d 8c")
	_, err := PlayRound(e, Scripted{}, 10, nil)
	require.NoError(t, err)

	_, err = PlayRound(e, Scripted{}, 10, nil)
	assert.ErrorIs(t, err, game.ErrWrongPhase)
}

func testConfig() Config {
	return Config{
		Sessions:        4,
		Hands:           50,
		BaseBet:         10,
		StartingBalance: 100000,
		Decks:           2,
		Penetration:     shoe.FixedPercentage(0.75),
		Seed:            12345,
		Workers:         2,
		Timeout:         30 * time.Second,
		Logger:          quietLogger(),
	}
}

func TestRunDeterministic(t *testing.T) {
	a, err := New(testConfig()).Run(context.Background())
	require.NoError(t, err)
	b, err := New(testConfig()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 200, a.Stats.Hands)
	assert.Len(t, a.Sessions, 4)
	assert.Zero(t, a.Bankrupt)
	assert.Equal(t, a.Stats.Values, b.Stats.Values)
	assert.Equal(t, a.Stats.Wagered, b.Stats.Wagered)
	require.NoError(t, a.Stats.Validate())

	for _, snap := range a.Sessions {
		assert.Equal(t, 50, snap.HandCount)
	}
	// Net per round adds up to the change in the session balances.
	var net int
	for _, snap := range a.Sessions {
		net += snap.Net()
	}
	assert.InDelta(t, float64(net), a.Stats.Sum, 1e-9)
}

func TestRunSavesSessions(t *testing.T) {
	var (
		mu    sync.Mutex
		saved []session.Snapshot
	)
	cfg := testConfig()
	cfg.Hands = 5
	cfg.Sink = session.SinkFunc(func(_ context.Context, snap session.Snapshot) error {
		mu.Lock()
		defer mu.Unlock()
		saved = append(saved, snap)
		return nil
	})

	_, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, saved, cfg.Sessions)
}

func TestRunBankrupt(t *testing.T) {
	cfg := testConfig()
	cfg.Sessions = 1
	cfg.Hands = 1000
	cfg.StartingBalance = 10
	cfg.BaseBet = 10

	report, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	if report.Bankrupt == 1 {
		assert.Less(t, report.Stats.Hands, 1000)
	} else {
		assert.Equal(t, 1000, report.Stats.Hands)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Hands = 0
	_, err := New(cfg).Run(context.Background())
	assert.Error(t, err)

	cfg = testConfig()
	cfg.BaseBet = 0
	_, err = New(cfg).Run(context.Background())
	assert.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(testConfig()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteSummary(t *testing.T) {
	report, err := New(testConfig()).Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteSummary(&buf, report)
	out := buf.String()
	assert.Contains(t, out, "SIMULATION RESULTS (simulator.Scripted)")
	assert.Contains(t, out, "Rounds played: 200 of 200 planned")
	assert.Contains(t, out, "House edge:")
}
