package game

import (
	"github.com/coltonswapp/hardway-blackjack/internal/bonus"
	"github.com/coltonswapp/hardway-blackjack/internal/deck"
	"github.com/coltonswapp/hardway-blackjack/internal/hand"
	"github.com/coltonswapp/hardway-blackjack/internal/session"
	"github.com/coltonswapp/hardway-blackjack/internal/shoe"
)

// Ready deals the opening cards.
func (e *Engine) Ready() Result {
	return e.run("ready", func() error {
		return e.deal(e.shoe.DealInitial)
	})
}

// DealFixed deals one of the canned opening hands instead of drawing.
func (e *Engine) DealFixed(kind shoe.FixedHand) Result {
	return e.run("deal_fixed", func() error {
		return e.deal(func() shoe.Deal { return e.shoe.DealFixedHand(kind) })
	})
}

func (e *Engine) deal(draw func() shoe.Deal) error {
	if e.phase != ReadyToDeal {
		return ErrWrongPhase
	}
	bet := e.ledger.MainBet()
	if bet == 0 {
		return ErrNoBet
	}

	e.dealing = true
	defer func() { e.dealing = false }()

	e.tracker.HandStarted(e.Bankroll())
	e.transition(Dealing)

	d := draw()
	e.player = HandState{Cards: []deck.Card{d.Player[0], d.Player[1]}, Bet: bet}
	e.dealer = []deck.Card{d.DealerUp, d.DealerHole}
	for _, c := range []deck.Card{d.Player[0], d.DealerUp, d.Player[1]} {
		e.shoe.Reveal(c)
	}
	e.logger.Debug("Dealt", "player", e.player.Cards, "upcard", d.DealerUp, "bet", bet)

	e.settleSideBets(true)

	if hand.IsBlackjack(e.player.Cards) {
		e.natural = true
		e.player.HasStood = true
		e.finishRound()
		return nil
	}

	e.transition(PlayerTurn)
	switch {
	case d.DealerUp.IsAce():
		e.insuranceOffered = true
		e.emit(InsuranceOffered{MaxStake: min(bet/2, e.ledger.Balance())})
	case hand.IsTenValue(d.DealerUp) && hand.IsBlackjack(e.dealer):
		e.logger.Debug("Dealer has blackjack under a ten")
		e.finishRound()
	}
	return nil
}

// ContinueAfterInsuranceCheck closes the insurance decision, taken or not.
// A dealer blackjack pays the insurance 2:1 and ends the round.
func (e *Engine) ContinueAfterInsuranceCheck() Result {
	return e.run("continue_after_insurance", func() error {
		if e.phase != PlayerTurn || !e.insuranceOffered {
			return ErrInsuranceNotOffered
		}
		e.insuranceOffered = false

		dealerBlackjack := hand.IsBlackjack(e.dealer)
		stake := e.ledger.SettleInsurance()
		winnings := 0
		if stake > 0 {
			if dealerBlackjack {
				winnings = 2 * stake
				e.ledger.Credit(stake + winnings)
			}
			e.tracker.RecordInsurance(dealerBlackjack)
		}
		e.emit(InsuranceResolved{Stake: stake, DealerBlackjack: dealerBlackjack, Payout: winnings})
		e.logger.Debug("Insurance resolved", "stake", stake, "dealerBlackjack", dealerBlackjack)

		if dealerBlackjack {
			e.finishRound()
		}
		return nil
	})
}

func (e *Engine) playerTurn() error {
	if e.phase != PlayerTurn {
		return ErrWrongPhase
	}
	if e.insuranceOffered {
		return ErrInsurancePending
	}
	if e.activeHand().Done() {
		return ErrHandComplete
	}
	return nil
}

// Hit draws one card to the active hand.
func (e *Engine) Hit() Result {
	return e.run("hit", func() error {
		if err := e.playerTurn(); err != nil {
			return err
		}
		h := e.activeHand()
		h.HasHit = true
		h.add(e.drawVisible())
		e.emitAction(Hit)
		if h.Done() {
			e.advance()
		}
		return nil
	})
}

// Stand ends the active hand.
func (e *Engine) Stand() Result {
	return e.run("stand", func() error {
		if err := e.playerTurn(); err != nil {
			return err
		}
		e.activeHand().HasStood = true
		e.emitAction(Stand)
		e.advance()
		return nil
	})
}

// Double doubles the active hand's stake, draws exactly one card and
// stands.
func (e *Engine) Double() Result {
	return e.run("double", func() error {
		if err := e.playerTurn(); err != nil {
			return err
		}
		h := e.activeHand()
		if !h.canDouble() {
			return ErrCannotDouble
		}
		if err := e.ledger.Debit(h.Bet); err != nil {
			return err
		}
		e.extra += h.Bet
		h.Bet *= 2
		h.HasDoubled = true
		e.tracker.RecordDouble()
		e.betPlaced(h.Bet)

		h.add(e.drawVisible())
		if !h.Busted {
			h.HasStood = true
		}
		e.emitAction(Double)
		e.advance()
		return nil
	})
}

func (e *Engine) canSplit() bool {
	return e.split == nil && !e.player.HasHit && !e.player.HasDoubled && hand.CanSplit(e.player.Cards)
}

// Split turns a pair into two hands with equal stakes and deals one card
// to each. Play continues on the first hand.
func (e *Engine) Split() Result {
	return e.run("split", func() error {
		if err := e.playerTurn(); err != nil {
			return err
		}
		if !e.canSplit() {
			return ErrCannotSplit
		}
		bet := e.player.Bet
		if err := e.ledger.Debit(bet); err != nil {
			return err
		}
		e.extra += bet

		e.split = &SplitState{Hands: [2]HandState{
			{Cards: []deck.Card{e.player.Cards[0]}, Bet: bet},
			{Cards: []deck.Card{e.player.Cards[1]}, Bet: bet},
		}}
		e.tracker.RecordSplit()
		e.betPlaced(bet)

		for i := range e.split.Hands {
			e.split.Hand(i).add(e.drawVisible())
		}
		e.emit(SplitStateChanged{IsSplit: true, ActiveIndex: 0})
		e.emitAction(Split)
		if e.split.Hands[0].Done() {
			e.advance()
		}
		return nil
	})
}

// NewHand starts the next round after GameOver. A pending reshuffle is
// applied first, then the rebet if no bet was left on the table.
func (e *Engine) NewHand() Result {
	return e.run("new_hand", func() error {
		if e.phase != GameOver {
			return ErrWrongPhase
		}
		e.resetRound()
		e.transition(WaitingForBet)

		if e.shoe.ReshuffleIfPending() {
			e.logger.Debug("Reshuffled at cut card", "cards", e.shoe.Remaining())
		}
		if amount, ok := e.ledger.ApplyRebet(); ok {
			e.betPlaced(amount)
		}
		if e.ledger.MainBet() > 0 {
			e.transition(ReadyToDeal)
		}
		return nil
	})
}

func (e *Engine) resetRound() {
	e.player = HandState{}
	e.split = nil
	e.dealer = nil
	e.holeRevealed = false
	e.natural = false
	e.extra = 0
	e.insuranceOffered = false
}

func (e *Engine) drawVisible() deck.Card {
	c := e.shoe.Draw()
	e.shoe.Reveal(c)
	return c
}

func (e *Engine) activeHand() *HandState {
	if e.split != nil {
		return e.split.Hand(e.split.ActiveIndex)
	}
	return &e.player
}

func (e *Engine) activeIndex() int {
	if e.split != nil {
		return e.split.ActiveIndex
	}
	return 0
}

func (e *Engine) playerHands() []*HandState {
	if e.split != nil {
		return []*HandState{e.split.Hand(0), e.split.Hand(1)}
	}
	return []*HandState{&e.player}
}

func (e *Engine) emitAction(a Action) {
	h := e.activeHand()
	e.emit(PlayerActionChanged{
		HandIndex: e.activeIndex(),
		Action:    a,
		Cards:     h.clone().Cards,
		Total:     h.Total(),
		Busted:    h.Busted,
	})
}

// advance moves play to the second split hand, or to the dealer once every
// player hand is done.
func (e *Engine) advance() {
	if e.split != nil && e.split.ActiveIndex == 0 {
		e.split.ActiveIndex = 1
		e.emit(SplitStateChanged{IsSplit: true, ActiveIndex: 1})
		if !e.split.Hands[1].Done() {
			return
		}
	}
	e.finishRound()
}

func (e *Engine) finishRound() {
	e.transition(DealerTurn)
	e.playDealer()
	e.resolveHands()
	e.settleSideBets(false)
	e.transition(GameOver)

	stake := 0
	for _, h := range e.playerHands() {
		stake += h.Bet
	}
	e.extra = 0
	e.tracker.HandCompleted(e.Bankroll(), stake)
	e.logger.Info("Round complete",
		"dealer", e.dealer,
		"dealerTotal", hand.Total(e.dealer),
		"stake", stake,
		"balance", e.ledger.Balance(),
		"onTable", e.ledger.MainBet())
}

// playDealer turns the hole card and draws to 17, hitting soft 17. The
// dealer does not draw against a natural.
func (e *Engine) playDealer() {
	e.holeRevealed = true
	e.shoe.Reveal(e.dealer[1])
	if e.natural {
		return
	}
	for hand.DealerShouldHit(e.dealer) {
		e.dealer = append(e.dealer, e.drawVisible())
	}
}

// Resolve decides one player hand against the dealer's final hand. A
// two-card 21 on a split hand is not a blackjack.
func Resolve(player, dealer []deck.Card, splitHand bool) session.Result {
	if hand.IsBusted(player) {
		return session.Loss
	}
	if hand.IsBusted(dealer) {
		return session.Win
	}
	playerBlackjack := !splitHand && hand.IsBlackjack(player)
	dealerBlackjack := hand.IsBlackjack(dealer)
	switch {
	case playerBlackjack && dealerBlackjack:
		return session.Push
	case playerBlackjack:
		return session.BlackjackWin
	}
	pt, dt := hand.Total(player), hand.Total(dealer)
	switch {
	case pt > dt:
		return session.Win
	case pt < dt:
		return session.Loss
	default:
		return session.Push
	}
}

// Payout returns stake plus winnings for a result.
func Payout(r session.Result, bet int) int {
	switch r {
	case session.Win:
		return 2 * bet
	case session.BlackjackWin:
		return bet + bet*3/2
	case session.Push:
		return bet
	default:
		return 0
	}
}

// resolveHands settles every player hand. The base main bet of the first
// hand stays on the table after a win or push; everything else is paid to
// the balance.
func (e *Engine) resolveHands() {
	split := e.split != nil
	base := e.ledger.MainBet()
	dealerTotal := hand.Total(e.dealer)

	for i, h := range e.playerHands() {
		result := Resolve(h.Cards, e.dealer, split)
		credit := Payout(result, h.Bet)
		if i == 0 {
			if result == session.Loss {
				e.ledger.ClearMain()
			} else {
				credit -= base
			}
		}
		e.ledger.Credit(credit)
		e.tracker.RecordResult(result, h.Busted)

		e.emit(HandResolved{
			HandIndex:   i,
			Result:      result,
			PlayerCards: h.clone().Cards,
			DealerCards: append([]deck.Card(nil), e.dealer...),
			PlayerTotal: h.Total(),
			DealerTotal: dealerTotal,
			Bet:         h.Bet,
			Payout:      credit,
		})
		e.logger.Debug("Hand resolved", "hand", i, "result", result, "player", h.Total(), "dealer", dealerTotal, "bet", h.Bet)
	}
}

// settleSideBets pays or clears the side bets that resolve at this point
// of the round: after the deal, or with the final hands.
func (e *Engine) settleSideBets(afterDeal bool) {
	player := e.sideBetCards()
	for _, kind := range bonus.Kinds {
		if kind.ResolvesAfterDeal() != afterDeal {
			continue
		}
		stake := e.ledger.SettleSide(kind)
		if stake == 0 {
			continue
		}
		outcome := bonus.Evaluate(kind, bonus.Input{Player: player, Dealer: e.dealer})
		payout := 0
		if outcome.Win {
			payout = stake + outcome.Payout(stake)
			e.ledger.Credit(payout)
		}
		e.tracker.RecordSideBet(outcome.Win)
		e.emit(SideBetResolved{Kind: kind, Stake: stake, Outcome: outcome, Payout: payout})
		e.logger.Debug("Side bet resolved", "kind", kind, "stake", stake, "win", outcome.Win, "odds", outcome.Odds)
	}
}

// sideBetCards is the hand side bets are scored on. After a split it is the
// opening pair plus every card drawn to the first hand.
func (e *Engine) sideBetCards() []deck.Card {
	if e.split == nil {
		return e.player.Cards
	}
	cards := append([]deck.Card(nil), e.player.Cards...)
	return append(cards, e.split.Hands[0].Cards[1:]...)
}
