package blackjack

import "cardtable-server/pkg/deck"

// Result is the outcome of a player's round
type Result string

// result constants
const (
	ResultNone      Result = "none"
	ResultWin       Result = "win"
	ResultLose      Result = "lose"
	ResultPush      Result = "push"
	ResultBlackjack Result = "blackjack"
	ResultBust      Result = "bust"
	ResultForfeit   Result = "forfeit"
)

// Participant is a player's ledger entry. It is owned by the Game's player
// map and only mutated through the game's operations.
type Participant struct {
	PlayerID string
	Name     string

	balance  int
	hand     deck.Hand
	bet      int
	standing bool
	busted   bool
	left     bool
	result   Result
}

// NewParticipant returns a new participant with the starting balance
func NewParticipant(playerID, name string, balance int) *Participant {
	return &Participant{
		PlayerID: playerID,
		Name:     name,
		balance:  balance,
		result:   ResultNone,
	}
}

// Balance returns the participant's balance
func (p *Participant) Balance() int {
	return p.balance
}

// Bet returns the participant's escrowed bet for the current round
func (p *Participant) Bet() int {
	return p.bet
}

// Hand returns a shallow copy of the participant's hand
func (p *Participant) Hand() deck.Hand {
	return p.hand.Clone()
}

// Result returns the participant's result for the current round
func (p *Participant) Result() Result {
	return p.result
}

// addCard adds a card to the participant's hand
func (p *Participant) addCard(card *deck.Card) {
	p.hand.AddCard(card)
}

// resolved returns true once the participant requires no further turns
func (p *Participant) resolved() bool {
	return p.standing || p.busted || p.left
}

// newRound clears the per-round fields
func (p *Participant) newRound() {
	p.hand = nil
	p.bet = 0
	p.standing = false
	p.busted = false
	p.result = ResultNone
}
