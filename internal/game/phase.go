package game

import "fmt"

// Phase is the stage of the current round.
type Phase int

const (
	WaitingForBet Phase = iota
	ReadyToDeal
	Dealing
	PlayerTurn
	DealerTurn
	GameOver
)

func (p Phase) String() string {
	switch p {
	case WaitingForBet:
		return "waiting_for_bet"
	case ReadyToDeal:
		return "ready_to_deal"
	case Dealing:
		return "dealing"
	case PlayerTurn:
		return "player_turn"
	case DealerTurn:
		return "dealer_turn"
	case GameOver:
		return "game_over"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// transitions lists the legal next phases.
var transitions = map[Phase][]Phase{
	WaitingForBet: {ReadyToDeal},
	ReadyToDeal:   {WaitingForBet, Dealing},
	Dealing:       {PlayerTurn, DealerTurn},
	PlayerTurn:    {DealerTurn},
	DealerTurn:    {GameOver},
	GameOver:      {WaitingForBet},
}

// CanTransition reports whether to may follow from.
func CanTransition(from, to Phase) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// acceptsBets reports whether wagers may change.
func (p Phase) acceptsBets() bool {
	return p == WaitingForBet || p == ReadyToDeal
}
