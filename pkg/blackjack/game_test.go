package blackjack

import (
	"fmt"
	"testing"

	"cardtable-server/pkg/deck"
	"cardtable-server/pkg/game"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

// testGame returns a game with the given number of seated players
// (player-1, player-2, ...) and the draw-time auto-reshuffle disabled
func testGame(playerCount int) *Game {
	g := NewGame(logrus.StandardLogger(), Options{StartingBalance: 100, DeckLowWaterMark: 0})
	for i := 1; i <= playerCount; i++ {
		_ = g.Join(fmt.Sprintf("player-%d", i), fmt.Sprintf("Player %d", i))
	}

	return g
}

// stackDeck rigs the deck so the listed cards come out in the listed order
func stackDeck(g *Game, cards string) {
	stacked := deck.CardsFromString(cards)
	rigged := make([]*deck.Card, len(stacked))
	for i, card := range stacked {
		rigged[len(stacked)-1-i] = card
	}

	g.deck.Cards = rigged
}

func TestNewGame(t *testing.T) {
	a := assert.New(t)

	g := NewGame(logrus.StandardLogger(), DefaultOptions())
	a.Equal(PhaseWaiting, g.phase)
	a.Equal(52, g.deck.CardsLeft())
	a.Equal("blackjack", g.Name())
}

func TestGame_Join(t *testing.T) {
	a := assert.New(t)

	g := testGame(0)
	a.Equal(PhaseWaiting, g.phase)

	a.NoError(g.Join("player-1", "Tobi"))
	a.Equal(PhaseBetting, g.phase)
	a.Equal(100, g.players["player-1"].balance)

	// rejoin only updates the name
	a.NoError(g.Join("player-1", "Tobias"))
	a.Equal("Tobias", g.players["player-1"].Name)
	a.Equal(1, len(g.seats))
}

func TestGame_PlaceBet_Validation(t *testing.T) {
	a := assert.New(t)

	g := testGame(2)

	a.Equal(ErrPlayerNotFound, g.PlaceBet("stranger", 10))
	a.Equal(ErrInvalidBetAmount, g.PlaceBet("player-1", 0))
	a.Equal(ErrInvalidBetAmount, g.PlaceBet("player-1", 101))

	a.NoError(g.PlaceBet("player-1", 10))
	a.Equal(90, g.players["player-1"].balance)
	a.Equal(10, g.players["player-1"].bet)
	a.Equal(ErrAlreadyBet, g.PlaceBet("player-1", 10))

	// still betting; player-2 hasn't bet yet
	a.Equal(PhaseBetting, g.phase)
	a.Equal(ErrWrongPhase, g.Hit("player-1"))
}

func TestGame_LoneBet_DealsImmediately(t *testing.T) {
	a := assert.New(t)

	g := testGame(1)
	stackDeck(g, "10c,9d,5h,6d")

	a.NoError(g.PlaceBet("player-1", 100))
	a.Equal(0, g.players["player-1"].balance)

	a.Equal(PhasePlayerTurn, g.phase)
	a.Equal("player-1", g.turnQueue[0])
	a.Equal("10c,5h", g.players["player-1"].hand.String())
	a.Equal("9d,6d", g.dealerHand.String())
}

func TestGame_Hit(t *testing.T) {
	a := assert.New(t)

	g := testGame(1)
	stackDeck(g, "10c,9d,5h,7d,3c,2s")
	a.NoError(g.PlaceBet("player-1", 10))

	a.Equal(ErrPlayerNotFound, g.Hit("stranger"))

	// 15 + 3 = 18, keeps the turn
	a.NoError(g.Hit("player-1"))
	a.Equal(18, Score(g.players["player-1"].hand))
	a.Equal(PhasePlayerTurn, g.phase)
	a.Equal("player-1", g.turnQueue[0])

	// 18 + 2 = 20, still keeps the turn
	a.NoError(g.Hit("player-1"))
	a.Equal(PhasePlayerTurn, g.phase)
}

func TestGame_Hit_ToTwentyOne(t *testing.T) {
	a := assert.New(t)

	g := testGame(1)
	// player 15, dealer 17; hit brings the player to exactly 21
	stackDeck(g, "10c,10d,5h,7d,6s")
	a.NoError(g.PlaceBet("player-1", 10))

	a.NoError(g.Hit("player-1"))

	p := g.players["player-1"]
	a.Equal(21, Score(p.hand))
	a.True(p.standing)
	a.False(p.busted)

	// 21 is terminal: the turn popped and the round settled
	a.Equal(PhaseSettled, g.phase)
	a.Equal(ResultWin, p.result)
	a.Equal(110, p.balance)
}

func TestGame_Hit_Bust(t *testing.T) {
	a := assert.New(t)

	g := testGame(1)
	stackDeck(g, "10c,10d,9h,7d,5s")
	a.NoError(g.PlaceBet("player-1", 10))

	a.NoError(g.Hit("player-1"))

	p := g.players["player-1"]
	a.True(p.busted)
	a.Equal(ResultBust, p.result)
	a.Equal(PhaseSettled, g.phase)
	a.Equal(90, p.balance)
}

func TestGame_Settlement_DealerBusts(t *testing.T) {
	a := assert.New(t)

	g := testGame(1)
	// player 19, dealer 16 then draws a ten and busts
	stackDeck(g, "10c,10d,9h,6d,10h")
	a.NoError(g.PlaceBet("player-1", 10))
	a.Equal(90, g.players["player-1"].balance)

	a.NoError(g.Stand("player-1"))

	p := g.players["player-1"]
	a.Equal(PhaseSettled, g.phase)
	a.Equal(ResultWin, p.result)
	a.Equal(110, p.balance)
	a.Equal(0, p.bet)
}

func TestGame_Settlement_Push(t *testing.T) {
	a := assert.New(t)

	g := testGame(1)
	// player 19 vs dealer 19
	stackDeck(g, "10c,10d,9h,9d")
	a.NoError(g.PlaceBet("player-1", 10))

	a.NoError(g.Stand("player-1"))

	p := g.players["player-1"]
	a.Equal(ResultPush, p.result)
	a.Equal(100, p.balance)
}

func TestGame_Settlement_PlayerBlackjack(t *testing.T) {
	a := assert.New(t)

	g := testGame(1)
	// natural for the player settles straight from the deal
	stackDeck(g, "14c,9d,13c,9h")
	a.NoError(g.PlaceBet("player-1", 10))

	p := g.players["player-1"]
	a.Equal(PhaseSettled, g.phase)
	a.Equal(ResultBlackjack, p.result)
	// floor(10 * 2.5) on top of the 90 left after escrow
	a.Equal(115, p.balance)
}

func TestGame_Settlement_BlackjackPayoutFloors(t *testing.T) {
	a := assert.New(t)

	g := testGame(1)
	stackDeck(g, "14c,9d,13c,9h")
	a.NoError(g.PlaceBet("player-1", 5))

	// floor(5 * 2.5) = 12
	a.Equal(107, g.players["player-1"].balance)
}

func TestGame_Settlement_BothBlackjack(t *testing.T) {
	a := assert.New(t)

	g := testGame(1)
	stackDeck(g, "14c,14d,13c,12d")
	a.NoError(g.PlaceBet("player-1", 10))

	p := g.players["player-1"]
	a.Equal(PhaseSettled, g.phase)
	// dealer natural too: push, refund only
	a.Equal(ResultPush, p.result)
	a.Equal(100, p.balance)
}

func TestGame_Settlement_DealerBlackjack(t *testing.T) {
	a := assert.New(t)

	g := testGame(1)
	stackDeck(g, "10c,14d,10h,13d")
	a.NoError(g.PlaceBet("player-1", 10))

	p := g.players["player-1"]
	a.Equal(PhaseSettled, g.phase)
	a.Equal(ResultLose, p.result)
	a.Equal(90, p.balance)
}

func TestGame_TurnOrder(t *testing.T) {
	a := assert.New(t)

	g := testGame(3)
	// A 19, B 15, C 19, dealer 17; B then hits a king and busts
	stackDeck(g, "10c,10d,10h,10s,9c,5d,9h,7s,13c")

	a.NoError(g.PlaceBet("player-1", 10))
	a.NoError(g.PlaceBet("player-2", 10))
	a.Equal(PhaseBetting, g.phase)

	a.NoError(g.PlaceBet("player-3", 10))
	a.Equal(PhasePlayerTurn, g.phase)
	a.Equal([]string{"player-1", "player-2", "player-3"}, g.turnQueue)

	a.Equal(ErrNotYourTurn, g.Stand("player-3"))

	a.NoError(g.Stand("player-1"))
	a.Equal("player-2", g.turnQueue[0])

	a.NoError(g.Hit("player-2"))
	a.True(g.players["player-2"].busted)
	a.Equal("player-3", g.turnQueue[0])

	// the dealer plays without further input once C stands
	a.NoError(g.Stand("player-3"))
	a.Equal(PhaseSettled, g.phase)

	a.Equal(ResultWin, g.players["player-1"].Result())
	a.Equal(ResultBust, g.players["player-2"].Result())
	a.Equal(ResultWin, g.players["player-3"].Result())
	a.Equal(110, g.players["player-1"].balance)
	a.Equal(90, g.players["player-2"].balance)
	a.Equal(110, g.players["player-3"].balance)
}

func TestGame_Double(t *testing.T) {
	a := assert.New(t)

	g := testGame(1)
	// player 11 doubles into a ten; dealer 18
	stackDeck(g, "5c,10d,6h,8d,10s")
	a.NoError(g.PlaceBet("player-1", 10))

	a.NoError(g.Double("player-1"))

	p := g.players["player-1"]
	a.Equal(PhaseSettled, g.phase)
	a.Equal(3, len(p.hand))
	a.Equal(ResultWin, p.result)
	// 100 - 10 - 10 + 40
	a.Equal(120, p.balance)
}

func TestGame_Double_Bust(t *testing.T) {
	a := assert.New(t)

	g := testGame(1)
	stackDeck(g, "10c,10d,6h,8d,10s")
	a.NoError(g.PlaceBet("player-1", 10))

	a.NoError(g.Double("player-1"))

	p := g.players["player-1"]
	a.True(p.busted)
	a.Equal(ResultBust, p.result)
	a.Equal(PhaseSettled, g.phase)
	a.Equal(80, p.balance)
}

func TestGame_Double_InsufficientBalance(t *testing.T) {
	a := assert.New(t)

	g := testGame(1)
	stackDeck(g, "5c,10d,6h,8d,10s")
	// betting 95 leaves only 5 behind: not enough to double a 95 bet
	a.NoError(g.PlaceBet("player-1", 95))

	err := g.Double("player-1")
	a.Equal(ErrInsufficientBalance, err)

	// hand, bet and turn are untouched
	p := g.players["player-1"]
	a.Equal(2, len(p.hand))
	a.Equal(95, p.bet)
	a.Equal(5, p.balance)
	a.Equal("player-1", g.turnQueue[0])
	a.Equal(PhasePlayerTurn, g.phase)
}

func TestGame_Double_AfterHit(t *testing.T) {
	a := assert.New(t)

	g := testGame(1)
	stackDeck(g, "2c,10d,3h,8d,2s,5s")
	a.NoError(g.PlaceBet("player-1", 10))

	a.NoError(g.Hit("player-1"))
	a.Equal(ErrCannotDouble, g.Double("player-1"))
}

func TestGame_NextRound(t *testing.T) {
	a := assert.New(t)

	g := testGame(2)
	a.Equal(ErrWrongPhase, g.NextRound())

	// player-1 19 wins, player-2 16 loses against dealer 18
	stackDeck(g, "10c,10d,10h,9c,6d,8h")
	a.NoError(g.PlaceBet("player-1", 10))
	a.NoError(g.PlaceBet("player-2", 100))
	a.NoError(g.Stand("player-1"))
	a.NoError(g.Stand("player-2"))

	a.Equal(PhaseSettled, g.phase)
	a.Equal(0, g.players["player-2"].balance)

	a.NoError(g.NextRound())

	// the broke player is purged, the survivor is cleared for a fresh round
	a.Equal(PhaseBetting, g.phase)
	a.Nil(g.players["player-2"])
	a.Equal([]string{"player-1"}, g.seats)

	p := g.players["player-1"]
	a.Equal(110, p.balance)
	a.Equal(0, p.bet)
	a.Nil(p.hand)
	a.Equal(ResultNone, p.result)
	a.Nil(g.dealerHand)
}

func TestGame_NextRound_ReplenishesDeck(t *testing.T) {
	a := assert.New(t)

	g := NewGame(logrus.StandardLogger(), DefaultOptions())
	_ = g.Join("player-1", "Tobi")

	g.phase = PhaseSettled
	g.deck.Cards = deck.CardsFromString("2c,3c")

	a.NoError(g.NextRound())
	a.Equal(52, g.deck.CardsLeft())
}

func TestGame_Reset(t *testing.T) {
	a := assert.New(t)

	g := testGame(2)
	stackDeck(g, "10c,10d,10h,9c,6d,8h")
	a.NoError(g.PlaceBet("player-1", 10))
	a.NoError(g.PlaceBet("player-2", 100))
	a.NoError(g.Stand("player-1"))
	a.NoError(g.Stand("player-2"))

	g.Reset()

	// everyone stays seated and gets their stake back
	a.Equal(PhaseBetting, g.phase)
	a.Equal(2, len(g.seats))
	a.Equal(100, g.players["player-1"].balance)
	a.Equal(100, g.players["player-2"].balance)
	a.Equal(52, g.deck.CardsLeft())
}

func TestGame_Leave_Forfeits(t *testing.T) {
	a := assert.New(t)

	g := testGame(2)
	stackDeck(g, "10c,10d,10h,9c,6d,8h")
	a.NoError(g.PlaceBet("player-1", 10))
	a.NoError(g.PlaceBet("player-2", 10))

	g.Leave("player-1")

	// the departed head's turn is skipped
	a.Equal(PhasePlayerTurn, g.phase)
	a.Equal("player-2", g.turnQueue[0])

	a.NoError(g.Stand("player-2"))
	a.Equal(PhaseSettled, g.phase)

	// the bet is forfeited, not refunded
	a.Equal(ResultForfeit, g.players["player-1"].result)
	a.Equal(90, g.players["player-1"].balance)

	a.NoError(g.NextRound())
	a.Nil(g.players["player-1"])
}

func TestGame_Leave_UnblocksBetting(t *testing.T) {
	a := assert.New(t)

	g := testGame(2)
	stackDeck(g, "10c,9c,6d,8h")
	a.NoError(g.PlaceBet("player-1", 10))
	a.Equal(PhaseBetting, g.phase)

	// the player everyone was waiting on leaves
	g.Leave("player-2")
	a.Equal(PhasePlayerTurn, g.phase)
}

func TestGame_Leave_LastPlayer(t *testing.T) {
	a := assert.New(t)

	g := testGame(1)
	stackDeck(g, "10c,10d,9h,9d")
	a.NoError(g.PlaceBet("player-1", 10))

	g.Leave("player-1")
	a.Equal(PhaseWaiting, g.phase)
	a.Nil(g.dealerHand)
}

func TestGame_JoinMidRound_SitsOut(t *testing.T) {
	a := assert.New(t)

	g := testGame(1)
	stackDeck(g, "10c,10d,9h,9d")
	a.NoError(g.PlaceBet("player-1", 10))
	a.Equal(PhasePlayerTurn, g.phase)

	a.NoError(g.Join("player-2", "Late"))
	a.Equal(PhasePlayerTurn, g.phase)
	a.Equal(0, len(g.players["player-2"].hand))
	a.Equal(ErrWrongPhase, g.PlaceBet("player-2", 10))
}

func TestGame_Action(t *testing.T) {
	a := assert.New(t)

	g := testGame(1)
	stackDeck(g, "10c,10d,9h,9d")

	res, update, err := g.Action("player-1", false, &game.PayloadIn{
		Action:         "placeBet",
		AdditionalData: game.AdditionalData{"amount": float64(10)},
		Context:        "ctx-1",
	})
	a.NoError(err)
	a.True(update)
	a.Equal("ctx-1", res.Context)

	_, _, err = g.Action("player-1", false, &game.PayloadIn{Action: "placeBet"})
	a.EqualError(err, "missing 'amount' parameter")

	_, _, err = g.Action("player-1", false, &game.PayloadIn{Action: "adminReset"})
	a.Equal(game.ErrNotAdmin, err)

	_, update, err = g.Action("player-1", true, &game.PayloadIn{Action: "adminReset"})
	a.NoError(err)
	a.True(update)
	a.Equal(PhaseBetting, g.phase)

	_, _, err = g.Action("player-1", false, &game.PayloadIn{Action: "bogus"})
	a.EqualError(err, "unknown action: bogus")
}

func TestGame_BalanceEvents(t *testing.T) {
	a := assert.New(t)

	g := testGame(1)
	stackDeck(g, "10c,10d,9h,6d,10h")

	// drain the join event
	ev := <-g.Events()
	a.Equal(game.EventBalanceUpdate, ev[0].Type)
	a.Equal(game.BalanceUpdate{Amount: 100, Balance: 100}, ev[0].Data)

	a.NoError(g.PlaceBet("player-1", 10))
	ev = <-g.Events()
	a.Equal("player-1", ev[0].PlayerID)
	a.Equal(game.BalanceUpdate{Amount: -10, Balance: 90}, ev[0].Data)

	a.NoError(g.Stand("player-1"))
	ev = <-g.Events()
	a.Equal(game.BalanceUpdate{Amount: 20, Balance: 110}, ev[0].Data)
}

func TestGame_State(t *testing.T) {
	a := assert.New(t)

	g := testGame(2)
	stackDeck(g, "10c,10d,10h,9c,6d,8h")
	a.NoError(g.PlaceBet("player-1", 10))
	a.NoError(g.PlaceBet("player-2", 10))

	res := g.State()
	a.Equal("gameState", res.Key)
	a.Equal("blackjack", res.Value)

	state := res.Data.(*GameState)
	a.Equal("playerTurn", state.Phase)
	a.Equal("player-1", state.CurrentPlayerID)
	a.Equal([]string{"player-1", "player-2"}, state.Seats)
	a.Equal(2, len(state.DealerCards))

	p1 := state.Players["player-1"]
	a.Equal("Player 1", p1.Name)
	a.Equal(19, p1.Score)
	a.Equal(10, p1.Bet)
	a.Equal(90, p1.Balance)
	a.Equal(ResultNone, p1.Result)
}
