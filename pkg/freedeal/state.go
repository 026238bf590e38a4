package freedeal

import (
	"cardtable-server/pkg/deck"
	"cardtable-server/pkg/game"
)

// TableState is the full table snapshot
// This is safe for all players to see
type TableState struct {
	Players     map[string]*TableStatePlayer `json:"players"`
	Seats       []string                     `json:"seats"`
	CenterCards deck.Hand                    `json:"centerCards"`
	CardsLeft   int                          `json:"cardsLeft"`
}

// TableStatePlayer is the state of an individual player
type TableStatePlayer struct {
	Name    string    `json:"name"`
	Cards   deck.Hand `json:"cards"`
	Balance int       `json:"balance"`
}

// State returns the broadcastable snapshot of the table
func (t *Table) State() *game.Response {
	players := make(map[string]*TableStatePlayer, len(t.players))
	for id, p := range t.players {
		players[id] = &TableStatePlayer{
			Name:    p.Name,
			Cards:   p.cards.Clone(),
			Balance: p.balance,
		}
	}

	return &game.Response{
		Key:   "gameState",
		Value: t.Name(),
		Data: &TableState{
			Players:     players,
			Seats:       append([]string{}, t.seats...),
			CenterCards: t.centerCards.Clone(),
			CardsLeft:   t.deck.CardsLeft(),
		},
	}
}
