package game

import (
	"fmt"
	"strings"

	"github.com/coltonswapp/hardway-blackjack/internal/deck"
	"github.com/coltonswapp/hardway-blackjack/internal/events"
	"github.com/coltonswapp/hardway-blackjack/internal/session"
	"github.com/coltonswapp/hardway-blackjack/internal/shoe"
)

// FormattingOptions controls which events are turned into text.
type FormattingOptions struct {
	ShowCount  bool // Include Hi-Lo count updates
	ShowShoe   bool // Include shuffles, cut card and remaining cards
	ShowPhases bool // Include phase transitions
}

// EventFormatter turns engine events into one-line descriptions.
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format returns the text for an event, or false if the options hide it.
func (ef *EventFormatter) Format(event events.Event) (string, bool) {
	switch ev := event.(type) {
	case PhaseChanged:
		if !ef.opts.ShowPhases {
			return "", false
		}
		return fmt.Sprintf("-- %s --", strings.ReplaceAll(ev.To.String(), "_", " ")), true
	case PlayerActionChanged:
		return ef.FormatPlayerAction(ev), true
	case SplitStateChanged:
		return fmt.Sprintf("Playing hand %d of 2", ev.ActiveIndex+1), true
	case HandResolved:
		return ef.FormatHandResolved(ev), true
	case InsuranceOffered:
		return fmt.Sprintf("Dealer shows an ace: insurance up to $%d", ev.MaxStake), true
	case InsuranceResolved:
		return ef.FormatInsurance(ev), true
	case SideBetResolved:
		return ef.FormatSideBet(ev), true
	case shoe.ShuffleOccurred:
		if !ef.opts.ShowShoe {
			return "", false
		}
		return fmt.Sprintf("*** SHUFFLE *** %d cards", ev.CardCount), true
	case shoe.CutReached:
		if !ef.opts.ShowShoe {
			return "", false
		}
		return "*** CUT CARD *** reshuffle after this hand", true
	case shoe.CountUpdated:
		if !ef.opts.ShowCount {
			return "", false
		}
		return fmt.Sprintf("Count: running %+d, true %+d", ev.Running, ev.True), true
	default:
		return "", false
	}
}

// FormatPlayerAction formats a player action event
func (ef *EventFormatter) FormatPlayerAction(ev PlayerActionChanged) string {
	text := fmt.Sprintf("Hand %d: %s [%s] = %d", ev.HandIndex+1, ev.Action, formatCards(ev.Cards), ev.Total)
	if ev.Busted {
		text += " BUST"
	}
	return text
}

// FormatHandResolved formats the settlement of one hand
func (ef *EventFormatter) FormatHandResolved(ev HandResolved) string {
	var verb string
	switch ev.Result {
	case session.BlackjackWin:
		verb = "BLACKJACK"
	case session.Win:
		verb = "wins"
	case session.Push:
		verb = "pushes"
	default:
		verb = "loses"
	}
	return fmt.Sprintf("Hand %d %s: %d vs dealer %d [%s] (bet $%d, paid $%d)",
		ev.HandIndex+1, verb, ev.PlayerTotal, ev.DealerTotal, formatCards(ev.DealerCards), ev.Bet, ev.Payout)
}

// FormatInsurance formats an insurance settlement
func (ef *EventFormatter) FormatInsurance(ev InsuranceResolved) string {
	switch {
	case ev.Stake == 0 && ev.DealerBlackjack:
		return "Dealer has blackjack"
	case ev.Stake == 0:
		return "Dealer does not have blackjack"
	case ev.DealerBlackjack:
		return fmt.Sprintf("Insurance pays $%d", ev.Payout)
	default:
		return fmt.Sprintf("Insurance loses $%d", ev.Stake)
	}
}

// FormatSideBet formats a side bet settlement
func (ef *EventFormatter) FormatSideBet(ev SideBetResolved) string {
	name := strings.ReplaceAll(ev.Kind.String(), "_", " ")
	if !ev.Outcome.Win {
		return fmt.Sprintf("Side bet %s loses $%d", name, ev.Stake)
	}
	return fmt.Sprintf("Side bet %s: %s %g:1 pays $%d", name, ev.Outcome.Label, ev.Outcome.Odds, ev.Payout)
}

func formatCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
