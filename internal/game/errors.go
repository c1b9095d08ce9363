package game

import (
	"errors"

	"github.com/coltonswapp/hardway-blackjack/internal/ledger"
)

// Intents fail with one of these; errors.Is matches through any wrapping.
var (
	ErrWrongPhase          = errors.New("action not allowed in this phase")
	ErrNoBet               = ledger.ErrNoBet
	ErrInvalidAmount       = ledger.ErrInvalidAmount
	ErrInsufficientBalance = ledger.ErrInsufficientBalance
	ErrInsuranceTooLarge   = ledger.ErrInsuranceTooLarge
	ErrInsurancePending    = errors.New("insurance decision pending")
	ErrInsuranceNotOffered = errors.New("insurance not offered")
	ErrInsuranceTaken      = errors.New("insurance already placed")
	ErrCannotDouble        = errors.New("hand cannot be doubled")
	ErrCannotSplit         = errors.New("hand cannot be split")
	ErrHandComplete        = errors.New("hand is already complete")
	ErrDealInProgress      = errors.New("deal already in progress")
)
