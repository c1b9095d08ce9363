package game

import (
	"github.com/coltonswapp/hardway-blackjack/internal/bonus"
	"github.com/coltonswapp/hardway-blackjack/internal/ledger"
	"github.com/coltonswapp/hardway-blackjack/internal/shoe"
)

// PlaceBet adds amount to the main bet. The first bet moves the round to
// ReadyToDeal.
func (e *Engine) PlaceBet(amount int) Result {
	return e.run("place_bet", func() error {
		if !e.phase.acceptsBets() {
			return ErrWrongPhase
		}
		if err := e.ledger.PlaceMain(amount); err != nil {
			return err
		}
		e.betPlaced(e.ledger.MainBet())
		if e.phase == WaitingForBet {
			e.transition(ReadyToDeal)
		}
		return nil
	})
}

// RemoveBet takes amount off the main bet. Removing all of it returns the
// round to WaitingForBet.
func (e *Engine) RemoveBet(amount int) Result {
	return e.run("remove_bet", func() error {
		if !e.phase.acceptsBets() {
			return ErrWrongPhase
		}
		if err := e.ledger.RemoveMain(amount); err != nil {
			return err
		}
		if e.ledger.MainBet() == 0 && e.phase == ReadyToDeal {
			e.transition(WaitingForBet)
		}
		return nil
	})
}

// PlaceSideBet adds amount to the side bet on kind. Side bets ride with a
// main bet; they do not make the round ready on their own.
func (e *Engine) PlaceSideBet(kind bonus.Kind, amount int) Result {
	return e.run("place_side_bet", func() error {
		if !e.phase.acceptsBets() {
			return ErrWrongPhase
		}
		if err := e.ledger.PlaceSide(kind, amount); err != nil {
			return err
		}
		e.betPlaced(e.ledger.SideBet(kind))
		return nil
	})
}

// RemoveSideBet returns the side bet on kind.
func (e *Engine) RemoveSideBet(kind bonus.Kind) Result {
	return e.run("remove_side_bet", func() error {
		if !e.phase.acceptsBets() {
			return ErrWrongPhase
		}
		_, err := e.ledger.RemoveSide(kind)
		return err
	})
}

// PlaceInsurance insures the main bet while the dealer shows an ace. The
// stake may not exceed half the main bet.
func (e *Engine) PlaceInsurance(amount int) Result {
	return e.run("place_insurance", func() error {
		if e.phase != PlayerTurn || !e.insuranceOffered {
			return ErrInsuranceNotOffered
		}
		if e.ledger.InsuranceBet() > 0 {
			return ErrInsuranceTaken
		}
		if err := e.ledger.PlaceInsurance(amount); err != nil {
			return err
		}
		e.betPlaced(e.ledger.InsuranceBet())
		return nil
	})
}

// SetDeckCount rebuilds the shoe between rounds. Counts other than 1, 2, 4
// or 6 are ignored.
func (e *Engine) SetDeckCount(n int) Result {
	return e.run("set_deck_count", func() error {
		if !e.betweenRounds() {
			return ErrWrongPhase
		}
		if !e.shoe.SetDeckCount(n) {
			e.logger.Debug("Ignoring deck count", "decks", n, "keeping", e.shoe.DeckCount())
		}
		return nil
	})
}

// SetPenetration changes the cut card policy from the next shuffle on. An
// out of range fraction is ignored.
func (e *Engine) SetPenetration(p shoe.Penetration) Result {
	return e.run("set_penetration", func() error {
		if !e.shoe.SetPenetration(p) {
			e.logger.Debug("Ignoring penetration", "penetration", p, "keeping", e.shoe.Penetration())
		}
		return nil
	})
}

// SetRebet changes the automatic rebet applied by NewHand.
func (e *Engine) SetRebet(r ledger.Rebet) Result {
	return e.run("set_rebet", func() error {
		e.ledger.SetRebet(r)
		return nil
	})
}

func (e *Engine) betweenRounds() bool {
	return e.phase.acceptsBets() || e.phase == GameOver
}

// betPlaced reports a placement. stake is the whole wager it went onto,
// not the chips just added.
func (e *Engine) betPlaced(stake int) {
	e.tracker.BetPlaced(stake, e.Bankroll())
	e.tracker.ObserveConcurrentBets(e.concurrentBets())
}

// concurrentBets counts the separate stakes down: main, side bets,
// insurance and a second split hand.
func (e *Engine) concurrentBets() int {
	n := e.ledger.Wager().Count()
	if e.split != nil {
		n++
	}
	return n
}
