package blackjack

import (
	"cardtable-server/pkg/deck"
	"cardtable-server/pkg/game"
)

// GameState is the full table snapshot
// This is safe for all players to see
type GameState struct {
	Phase           string                      `json:"phase"`
	DealerCards     deck.Hand                   `json:"dealerCards"`
	DealerScore     int                         `json:"dealerScore"`
	Players         map[string]*GameStatePlayer `json:"players"`
	CurrentPlayerID string                      `json:"currentPlayerId"`
	// Seats is the join order, for stable client rendering
	Seats []string `json:"seats"`
}

// GameStatePlayer is the state of an individual player
type GameStatePlayer struct {
	Name     string    `json:"name"`
	Hand     deck.Hand `json:"hand"`
	Score    int       `json:"score"`
	Bet      int       `json:"bet"`
	Balance  int       `json:"balance"`
	Standing bool      `json:"standing"`
	Busted   bool      `json:"busted"`
	Result   Result    `json:"result"`
}

// State returns the broadcastable snapshot of the table
func (g *Game) State() *game.Response {
	players := make(map[string]*GameStatePlayer, len(g.players))
	for id, p := range g.players {
		players[id] = &GameStatePlayer{
			Name:     p.Name,
			Hand:     p.Hand(),
			Score:    Score(p.hand),
			Bet:      p.bet,
			Balance:  p.balance,
			Standing: p.standing,
			Busted:   p.busted,
			Result:   p.result,
		}
	}

	currentPlayerID := ""
	if g.phase == PhasePlayerTurn && len(g.turnQueue) > 0 {
		currentPlayerID = g.turnQueue[0]
	}

	return &game.Response{
		Key:   "gameState",
		Value: g.Name(),
		Data: &GameState{
			Phase:           g.phase.String(),
			DealerCards:     g.dealerHand.Clone(),
			DealerScore:     Score(g.dealerHand),
			Players:         players,
			CurrentPlayerID: currentPlayerID,
			Seats:           append([]string{}, g.seats...),
		},
	}
}
