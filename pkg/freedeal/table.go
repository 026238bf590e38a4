// Package freedeal implements the admin-driven table-sharing mode: no turn
// structure, just a shared deck, per-player cards, a center pile, and
// manually tallied balances.
package freedeal

import (
	"fmt"

	"cardtable-server/pkg/deck"
	"cardtable-server/pkg/game"

	"github.com/sirupsen/logrus"
)

// Player is a seat at the free-deal table
type Player struct {
	PlayerID string
	Name     string

	cards   deck.Hand
	balance int
}

// Table is the free-deal table. The caller must serialize all calls; the
// room dealer's run loop guarantees that.
type Table struct {
	deck        *deck.Deck
	players     map[string]*Player
	seats       []string
	centerCards deck.Hand

	logger    logrus.FieldLogger
	eventChan chan []*game.Event
}

// NewTable returns a free-deal table with a freshly shuffled deck.
// The draw-time auto-reshuffle is disabled: the admin shuffles explicitly,
// and returned cards must be preserved.
func NewTable(logger logrus.FieldLogger) *Table {
	d := deck.New()
	d.SetLowWaterMark(0)
	d.Shuffle()

	return &Table{
		deck:      d,
		players:   make(map[string]*Player),
		logger:    logger,
		eventChan: make(chan []*game.Event, 256),
	}
}

// Name returns "freedeal"
func (t *Table) Name() string {
	return "freedeal"
}

// Events returns a channel of targeted events
func (t *Table) Events() <-chan []*game.Event {
	return t.eventChan
}

// Join seats a player. A rejoin only updates the display name.
func (t *Table) Join(playerID, name string) error {
	if p, ok := t.players[playerID]; ok {
		p.Name = name
		return nil
	}

	t.players[playerID] = &Player{
		PlayerID: playerID,
		Name:     name,
	}
	t.seats = append(t.seats, playerID)

	t.logger.WithField("player", name).Info("player joined")
	return nil
}

// Leave is a no-op: free-deal seats persist across disconnects and are only
// cleared by the admin's removePlayer
func (t *Table) Leave(playerID string) {}

// Action performs an action
func (t *Table) Action(playerID string, isAdmin bool, message *game.PayloadIn) (playerResponse *game.Response, updateState bool, err error) {
	if message.Action == "updateBalance" {
		return t.updateBalance(playerID, isAdmin, message)
	}

	if !isAdmin {
		return nil, false, game.ErrNotAdmin
	}

	switch message.Action {
	case "shuffle":
		t.deck.Shuffle()
		t.logger.Info("deck shuffled")
	case "dealToAll":
		if err := t.dealToAll(); err != nil {
			return nil, false, err
		}
	case "dealToCenter":
		if err := t.dealToCenter(); err != nil {
			return nil, false, err
		}
	case "dealToPlayer":
		targetID, _ := message.AdditionalData.GetString("playerId")
		if err := t.dealToPlayer(targetID); err != nil {
			return nil, false, err
		}
	case "clearCenter":
		t.clearCenter()
	case "returnCardToDeck":
		index, _ := message.AdditionalData.GetInt("cardIndex")
		if err := t.returnCardToDeck(index); err != nil {
			return nil, false, err
		}
	case "removePlayer":
		targetID, _ := message.AdditionalData.GetString("playerId")
		if err := t.removePlayer(targetID); err != nil {
			return nil, false, err
		}
	case "adminReset":
		t.reset()
	case "debugShowDeck":
		// sent to the admin only, never broadcast
		return &game.Response{
			Key:     "debugDeck",
			Value:   t.Name(),
			Data:    t.deck.Cards,
			Context: message.Context,
		}, false, nil
	default:
		return nil, false, fmt.Errorf("unknown action: %s", message.Action)
	}

	return game.OK(message.Context), true, nil
}

// dealToAll deals one card to every seated player
func (t *Table) dealToAll() error {
	if len(t.seats) == 0 {
		return ErrNoPlayers
	}

	if !t.deck.CanDraw(len(t.seats)) {
		return ErrNotEnoughCards
	}

	for _, id := range t.seats {
		card, err := t.deck.Draw()
		if err != nil {
			return err
		}

		t.players[id].cards.AddCard(card)
	}

	t.logger.WithField("players", len(t.seats)).Info("dealt to all")
	return nil
}

func (t *Table) dealToCenter() error {
	if !t.deck.CanDraw(1) {
		return ErrNotEnoughCards
	}

	card, err := t.deck.Draw()
	if err != nil {
		return err
	}

	t.centerCards.AddCard(card)
	return nil
}

func (t *Table) dealToPlayer(playerID string) error {
	p, ok := t.players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}

	if !t.deck.CanDraw(1) {
		return ErrNotEnoughCards
	}

	card, err := t.deck.Draw()
	if err != nil {
		return err
	}

	p.cards.AddCard(card)
	return nil
}

// clearCenter returns the center pile to the deck and shuffles the stock.
// Cards out in player hands stay out, so the full set is conserved.
func (t *Table) clearCenter() {
	t.deck.ReturnCards(t.centerCards)
	t.deck.ShuffleRemaining()
	t.centerCards = nil
}

func (t *Table) returnCardToDeck(index int) error {
	if index < 0 || index >= len(t.centerCards) {
		return ErrInvalidCardIndex
	}

	card := t.centerCards[index]
	t.centerCards = append(t.centerCards[:index], t.centerCards[index+1:]...)
	t.deck.ReturnCards([]*deck.Card{card})
	return nil
}

// removePlayer unseats the player and returns their cards to the deck
func (t *Table) removePlayer(playerID string) error {
	p, ok := t.players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}

	t.deck.ReturnCards(p.cards)
	delete(t.players, playerID)

	seats := make([]string, 0, len(t.seats))
	for _, id := range t.seats {
		if id != playerID {
			seats = append(seats, id)
		}
	}
	t.seats = seats

	t.logger.WithField("player", p.Name).Info("player removed")
	return nil
}

// updateBalance adjusts a manual balance tally. Players may adjust their own;
// admins may adjust anyone's.
func (t *Table) updateBalance(playerID string, isAdmin bool, message *game.PayloadIn) (*game.Response, bool, error) {
	targetID, ok := message.AdditionalData.GetString("playerId")
	if !ok || targetID == "" {
		targetID = playerID
	}

	if targetID != playerID && !isAdmin {
		return nil, false, game.ErrNotAdmin
	}

	amount, ok := message.AdditionalData.GetInt("amount")
	if !ok {
		return nil, false, fmt.Errorf("missing 'amount' parameter")
	}

	p, ok := t.players[targetID]
	if !ok {
		return nil, false, ErrPlayerNotFound
	}

	p.balance += amount
	t.emit(game.NewBalanceUpdate(targetID, amount, p.balance))

	t.logger.WithFields(logrus.Fields{
		"player": p.Name,
		"amount": amount,
	}).Info("balance updated")

	return game.OK(message.Context), true, nil
}

// reset rebuilds the table: fresh shuffled deck, no players, no center pile
func (t *Table) reset() {
	t.deck.Shuffle()
	t.players = make(map[string]*Player)
	t.seats = nil
	t.centerCards = nil

	t.logger.Info("table reset")
}

func (t *Table) emit(events ...*game.Event) {
	select {
	case t.eventChan <- events:
	default:
	}
}
