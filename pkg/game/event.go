package game

import (
	"time"

	"github.com/google/uuid"
)

// event type constants
const (
	// EventBalanceUpdate is delivered only to the player whose balance changed
	EventBalanceUpdate = "balanceUpdate"
)

// Event is a targeted message a mode emits for a single player
type Event struct {
	UUID     string      `json:"uuid"`
	Type     string      `json:"type"`
	PlayerID string      `json:"-"`
	Data     interface{} `json:"data"`
	Time     time.Time   `json:"time"`
}

// BalanceUpdate is the payload of an EventBalanceUpdate
type BalanceUpdate struct {
	Amount  int `json:"amount"`
	Balance int `json:"balance"`
}

// NewBalanceUpdate returns a balance change event for the given player.
// Amount is the delta applied, balance is the resulting balance.
func NewBalanceUpdate(playerID string, amount, balance int) *Event {
	return &Event{
		UUID:     uuid.New().String(),
		Type:     EventBalanceUpdate,
		PlayerID: playerID,
		Data: BalanceUpdate{
			Amount:  amount,
			Balance: balance,
		},
		Time: time.Now(),
	}
}
