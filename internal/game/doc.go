// Package game implements the blackjack round state machine.
//
// The main type is Engine, which owns the phase, the player's hand (or the
// pair of hands after a split) and the dealer's cards for the current round.
// It draws from a shoe.Manager, keeps money in a ledger.Ledger and reports
// every finished hand to a session.Tracker.
//
// # Basic Usage
//
//	e := game.New(game.WithSource(randutil.New(42)))
//	e.PlaceBet(10)
//	r := e.Ready()
//	for r.Phase == game.PlayerTurn {
//	    r = e.Stand()
//	}
//	e.NewHand()
//
// Every intent returns a Result carrying the phase after the intent, the
// error that rejected it (nil on success) and the events it produced. A
// rejected intent changes nothing.
//
// # Deterministic Testing
//
// Inject a shoe.StackedSource to fix the order of the shoe, or use
// DealFixed to deal one of the canned opening hands:
//
//	e := game.New(game.WithSource(shoe.Stack("As 9c Kh 8d")), game.WithDecks(1))
//
// # Events
//
// Subscribe to the bus passed with WithBus to observe phase changes, player
// actions, split state, resolutions and the shoe's shuffle and count events.
// Events are delivered synchronously while the intent runs.
package game
