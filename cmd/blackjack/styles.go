package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/coltonswapp/hardway-blackjack/internal/events"
	"github.com/coltonswapp/hardway-blackjack/internal/game"
	"github.com/coltonswapp/hardway-blackjack/internal/session"
	"github.com/coltonswapp/hardway-blackjack/internal/shoe"
	"github.com/muesli/termenv"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1B5E20")).
			Padding(0, 1).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	cardStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	pushStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

// applyColor drops every color and attribute when disabled.
func applyColor(noColor bool) {
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func styleFor(ev events.Event) lipgloss.Style {
	switch ev := ev.(type) {
	case game.HandResolved:
		switch ev.Result {
		case session.Win, session.BlackjackWin:
			return winStyle
		case session.Push:
			return pushStyle
		default:
			return lossStyle
		}
	case game.SideBetResolved:
		if ev.Outcome.Win {
			return winStyle
		}
		return lossStyle
	case game.InsuranceResolved:
		if ev.Stake > 0 && ev.DealerBlackjack {
			return winStyle
		}
		return pushStyle
	case shoe.ShuffleOccurred, shoe.CutReached, shoe.CountUpdated, game.PhaseChanged:
		return infoStyle
	default:
		return cardStyle
	}
}
