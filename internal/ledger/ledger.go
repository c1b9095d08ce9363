// Package ledger holds the player's balance and the wagers on the table.
//
// Stakes move off the balance when they are placed and come back through
// Credit when a bet wins or pushes, so Balance plus Wager.Total is the
// player's bankroll at any point in a round.
package ledger

import (
	"errors"
	"fmt"
	"maps"

	"github.com/coltonswapp/hardway-blackjack/internal/bonus"
)

var (
	ErrInvalidAmount       = errors.New("bet amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoBet               = errors.New("no bet placed")
	ErrInsuranceTooLarge   = errors.New("insurance exceeds half the main bet")
)

// ValidateBet reports whether amount can be staked from balance.
func ValidateBet(amount, balance int) bool {
	return amount > 0 && amount <= balance
}

// Rebet re-places a fixed main bet at the start of a hand.
type Rebet struct {
	Enabled bool
	Amount  int
}

// CalculateRebet returns the amount to place automatically. Nothing is
// placed when rebet is off, when a bet is still on the table from the last
// hand, or when the balance cannot cover the amount.
func CalculateRebet(r Rebet, current, balance int) (int, bool) {
	if !r.Enabled || current > 0 {
		return 0, false
	}
	if !ValidateBet(r.Amount, balance) {
		return 0, false
	}
	return r.Amount, true
}

// Wager is everything staked on the current round.
type Wager struct {
	MainBet      int
	SideBets     map[bonus.Kind]int
	InsuranceBet int
}

// SideTotal sums the side bets.
func (w Wager) SideTotal() int {
	total := 0
	for _, v := range w.SideBets {
		total += v
	}
	return total
}

// Total sums every stake in the wager.
func (w Wager) Total() int {
	return w.MainBet + w.SideTotal() + w.InsuranceBet
}

// Count returns how many separate stakes are down.
func (w Wager) Count() int {
	n := 0
	if w.MainBet > 0 {
		n++
	}
	for _, v := range w.SideBets {
		if v > 0 {
			n++
		}
	}
	if w.InsuranceBet > 0 {
		n++
	}
	return n
}

// Ledger tracks balance and wager. It does not know about phases; the
// game engine decides when each operation is allowed.
type Ledger struct {
	balance int
	wager   Wager
	rebet   Rebet
}

// New returns a ledger with the given starting balance.
func New(balance int) *Ledger {
	return &Ledger{
		balance: balance,
		wager:   Wager{SideBets: make(map[bonus.Kind]int)},
	}
}

// Balance returns the money not currently staked.
func (l *Ledger) Balance() int { return l.balance }

// Bankroll returns balance plus everything staked.
func (l *Ledger) Bankroll() int { return l.balance + l.wager.Total() }

// Wager returns a copy of the current wager.
func (l *Ledger) Wager() Wager {
	return Wager{
		MainBet:      l.wager.MainBet,
		SideBets:     maps.Clone(l.wager.SideBets),
		InsuranceBet: l.wager.InsuranceBet,
	}
}

// MainBet returns the main stake.
func (l *Ledger) MainBet() int { return l.wager.MainBet }

// SideBet returns the stake on kind.
func (l *Ledger) SideBet(kind bonus.Kind) int { return l.wager.SideBets[kind] }

// InsuranceBet returns the insurance stake.
func (l *Ledger) InsuranceBet() int { return l.wager.InsuranceBet }

// Rebet returns the rebet setting.
func (l *Ledger) Rebet() Rebet { return l.rebet }

// SetRebet changes the rebet setting.
func (l *Ledger) SetRebet(r Rebet) { l.rebet = r }

func (l *Ledger) take(amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !ValidateBet(amount, l.balance) {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientBalance, amount, l.balance)
	}
	l.balance -= amount
	return nil
}

// PlaceMain adds amount to the main bet.
func (l *Ledger) PlaceMain(amount int) error {
	if err := l.take(amount); err != nil {
		return err
	}
	l.wager.MainBet += amount
	return nil
}

// RemoveMain takes amount off the main bet and returns it to the balance.
func (l *Ledger) RemoveMain(amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if l.wager.MainBet == 0 {
		return ErrNoBet
	}
	if amount > l.wager.MainBet {
		return fmt.Errorf("%w: cannot remove %d from %d", ErrNoBet, amount, l.wager.MainBet)
	}
	l.wager.MainBet -= amount
	l.balance += amount
	return nil
}

// PlaceSide adds amount to the side bet on kind.
func (l *Ledger) PlaceSide(kind bonus.Kind, amount int) error {
	if err := l.take(amount); err != nil {
		return err
	}
	l.wager.SideBets[kind] += amount
	return nil
}

// RemoveSide returns the side bet on kind to the balance.
func (l *Ledger) RemoveSide(kind bonus.Kind) (int, error) {
	amount := l.wager.SideBets[kind]
	if amount == 0 {
		return 0, ErrNoBet
	}
	delete(l.wager.SideBets, kind)
	l.balance += amount
	return amount, nil
}

// PlaceInsurance stakes amount on insurance. It may not exceed half the
// main bet, rounded down.
func (l *Ledger) PlaceInsurance(amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if limit := l.wager.MainBet / 2; amount > limit {
		return fmt.Errorf("%w: %d > %d", ErrInsuranceTooLarge, amount, limit)
	}
	if err := l.take(amount); err != nil {
		return err
	}
	l.wager.InsuranceBet = amount
	return nil
}

// Debit moves amount off the balance for a stake the ledger does not track
// by name, such as a double or a split hand.
func (l *Ledger) Debit(amount int) error {
	return l.take(amount)
}

// Credit adds returned stakes and winnings to the balance.
func (l *Ledger) Credit(amount int) {
	if amount > 0 {
		l.balance += amount
	}
}

// SettleSide clears the side bet on kind and returns its stake. The caller
// credits winnings separately.
func (l *Ledger) SettleSide(kind bonus.Kind) int {
	amount := l.wager.SideBets[kind]
	delete(l.wager.SideBets, kind)
	return amount
}

// SettleInsurance clears the insurance bet and returns its stake.
func (l *Ledger) SettleInsurance() int {
	amount := l.wager.InsuranceBet
	l.wager.InsuranceBet = 0
	return amount
}

// ClearMain drops the main bet without returning it.
func (l *Ledger) ClearMain() { l.wager.MainBet = 0 }

// ClearRound drops every stake still on the table without returning it.
func (l *Ledger) ClearRound() {
	l.wager.MainBet = 0
	l.wager.InsuranceBet = 0
	clear(l.wager.SideBets)
}

// ApplyRebet places the rebet amount when CalculateRebet allows it.
func (l *Ledger) ApplyRebet() (int, bool) {
	amount, ok := CalculateRebet(l.rebet, l.wager.MainBet, l.balance)
	if !ok {
		return 0, false
	}
	l.balance -= amount
	l.wager.MainBet = amount
	return amount, true
}
