package blackjack

import (
	"fmt"

	"cardtable-server/pkg/deck"
	"cardtable-server/pkg/game"

	"github.com/sirupsen/logrus"
)

// Phase represents the current phase of the round
type Phase int

const (
	// PhaseWaiting is before any player has joined
	PhaseWaiting Phase = iota
	// PhaseBetting is when bets are being collected
	PhaseBetting
	// PhaseDealing is when the initial cards go out
	PhaseDealing
	// PhasePlayerTurn is when the head of the turn queue acts
	PhasePlayerTurn
	// PhaseDealerTurn is when the dealer auto-plays
	PhaseDealerTurn
	// PhaseSettled is after payouts, before the next round
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseBetting:
		return "betting"
	case PhaseDealing:
		return "dealing"
	case PhasePlayerTurn:
		return "playerTurn"
	case PhaseDealerTurn:
		return "dealerTurn"
	case PhaseSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Options configures a game of blackjack
type Options struct {
	// StartingBalance is the stake each player joins with
	StartingBalance int

	// DeckLowWaterMark is the remaining-card threshold for reshuffles
	DeckLowWaterMark int
}

// DefaultOptions returns the default blackjack options
func DefaultOptions() Options {
	return Options{
		StartingBalance:  100,
		DeckLowWaterMark: deck.DefaultLowWaterMark,
	}
}

// Game is the single-table blackjack round engine. The caller must serialize
// all calls; the room dealer's run loop guarantees that.
type Game struct {
	options Options
	deck    *deck.Deck

	phase      Phase
	dealerHand deck.Hand
	// turnQueue holds the players yet to act this round; head is the current turn
	turnQueue []string
	players   map[string]*Participant
	// seats preserves join order for dealing and turn order
	seats []string

	logger    logrus.FieldLogger
	eventChan chan []*game.Event
}

// NewGame returns a new blackjack game with a freshly shuffled deck
func NewGame(logger logrus.FieldLogger, opts Options) *Game {
	if opts.StartingBalance <= 0 {
		opts = DefaultOptions()
	}

	d := deck.New()
	d.SetLowWaterMark(opts.DeckLowWaterMark)
	d.Shuffle()

	return &Game{
		options:   opts,
		deck:      d,
		phase:     PhaseWaiting,
		players:   make(map[string]*Participant),
		logger:    logger,
		eventChan: make(chan []*game.Event, 256),
	}
}

// Name returns "blackjack"
func (g *Game) Name() string {
	return "blackjack"
}

// Events returns a channel of targeted events
func (g *Game) Events() <-chan []*game.Event {
	return g.eventChan
}

// Action performs an action
func (g *Game) Action(playerID string, isAdmin bool, message *game.PayloadIn) (playerResponse *game.Response, updateState bool, err error) {
	switch message.Action {
	case "placeBet":
		amount, ok := message.AdditionalData.GetInt("amount")
		if !ok {
			return nil, false, fmt.Errorf("missing 'amount' parameter")
		}

		if err := g.PlaceBet(playerID, amount); err != nil {
			return nil, false, err
		}
	case "hit":
		if err := g.Hit(playerID); err != nil {
			return nil, false, err
		}
	case "stand":
		if err := g.Stand(playerID); err != nil {
			return nil, false, err
		}
	case "double":
		if err := g.Double(playerID); err != nil {
			return nil, false, err
		}
	case "nextRound":
		if err := g.NextRound(); err != nil {
			return nil, false, err
		}
	case "adminReset":
		if !isAdmin {
			return nil, false, game.ErrNotAdmin
		}

		g.Reset()
	default:
		return nil, false, fmt.Errorf("unknown action: %s", message.Action)
	}

	return game.OK(message.Context), true, nil
}

// Join seats a player at the table with the starting balance.
// Joining mid-round is allowed; the player sits out until the next round.
// A rejoin only updates the display name.
func (g *Game) Join(playerID, name string) error {
	if p, ok := g.players[playerID]; ok {
		p.Name = name
		return nil
	}

	p := NewParticipant(playerID, name, g.options.StartingBalance)
	g.players[playerID] = p
	g.seats = append(g.seats, playerID)

	g.logger.WithFields(logrus.Fields{
		"player": name,
		"id":     playerID,
	}).Info("player joined")

	g.emit(game.NewBalanceUpdate(playerID, p.balance, p.balance))

	if g.phase == PhaseWaiting {
		g.phase = PhaseBetting
	}

	return nil
}

// Leave handles a player leaving the table, which forfeits any escrowed bet.
// The ledger entry is kept until the round boundary so the settlement and the
// broadcast snapshot can still show the forfeit.
func (g *Game) Leave(playerID string) {
	p, ok := g.players[playerID]
	if !ok || p.left {
		return
	}

	p.left = true
	if p.bet > 0 {
		p.result = ResultForfeit
	}

	g.logger.WithField("player", p.Name).Info("player left")

	if !g.anyoneSeated() {
		g.purgeDeparted()
		g.resetRound()
		g.phase = PhaseWaiting
		return
	}

	switch g.phase {
	case PhaseBetting:
		g.dealWhenBetsIn()
	case PhasePlayerTurn:
		g.dropFromQueue(playerID)
		if len(g.turnQueue) == 0 {
			g.playDealer()
		}
	}
}

// PlaceBet escrows a bet for the round. Valid only in the betting phase, once
// per round, for 1 <= amount <= balance. When the last outstanding bet lands,
// the deal happens immediately.
func (g *Game) PlaceBet(playerID string, amount int) error {
	p, ok := g.players[playerID]
	if !ok || p.left {
		return ErrPlayerNotFound
	}

	if g.phase != PhaseBetting {
		return ErrWrongPhase
	}

	if p.bet > 0 {
		return ErrAlreadyBet
	}

	if amount < 1 || amount > p.balance {
		return ErrInvalidBetAmount
	}

	p.balance -= amount
	p.bet = amount
	g.emit(game.NewBalanceUpdate(playerID, -amount, p.balance))

	g.logger.WithFields(logrus.Fields{
		"player": p.Name,
		"bet":    amount,
	}).Info("bet placed")

	g.dealWhenBetsIn()
	return nil
}

// Hit draws one card for the current player. Busting or reaching 21 ends the
// player's turn; otherwise they keep it.
func (g *Game) Hit(playerID string) error {
	p, err := g.currentTurn(playerID)
	if err != nil {
		return err
	}

	g.hitPlayer(p)
	return nil
}

// Stand ends the current player's turn
func (g *Game) Stand(playerID string) error {
	p, err := g.currentTurn(playerID)
	if err != nil {
		return err
	}

	p.standing = true
	g.advanceTurn()
	return nil
}

// Double doubles the current player's bet, draws exactly one card, and ends
// their turn. Valid only on the first two cards and only with the balance to
// cover the second stake.
func (g *Game) Double(playerID string) error {
	p, err := g.currentTurn(playerID)
	if err != nil {
		return err
	}

	if len(p.hand) != 2 {
		return ErrCannotDouble
	}

	if p.balance < p.bet {
		return ErrInsufficientBalance
	}

	p.balance -= p.bet
	g.emit(game.NewBalanceUpdate(playerID, -p.bet, p.balance))
	p.bet *= 2

	g.logger.WithFields(logrus.Fields{
		"player": p.Name,
		"bet":    p.bet,
	}).Info("doubled down")

	card := g.draw()
	p.addCard(card)

	if Score(p.hand) > blackjack {
		p.busted = true
		p.result = ResultBust
	} else {
		p.standing = true
	}

	g.advanceTurn()
	return nil
}

// NextRound purges broke and departed players, clears the per-round state, and
// starts collecting bets again. Valid only once the round has settled.
func (g *Game) NextRound() error {
	if g.phase != PhaseSettled {
		return ErrWrongPhase
	}

	g.purgePlayers()
	g.resetRound()

	if !g.deck.CanDraw(g.options.DeckLowWaterMark) {
		g.deck.Shuffle()
	}

	if len(g.players) == 0 {
		g.phase = PhaseWaiting
	} else {
		g.phase = PhaseBetting
	}

	g.logger.WithField("phase", g.phase.String()).Info("new round")
	return nil
}

// Reset restores every balance to the starting stake and forces a fresh round.
// Broke players stay seated; their stake comes back.
func (g *Game) Reset() {
	g.purgeDeparted()
	g.resetRound()
	g.deck.Shuffle()

	for _, p := range g.players {
		if p.balance != g.options.StartingBalance {
			delta := g.options.StartingBalance - p.balance
			p.balance = g.options.StartingBalance
			g.emit(game.NewBalanceUpdate(p.PlayerID, delta, p.balance))
		}
	}

	if len(g.players) == 0 {
		g.phase = PhaseWaiting
	} else {
		g.phase = PhaseBetting
	}

	g.logger.Info("game reset")
}

// currentTurn validates that the player exists and holds the turn
func (g *Game) currentTurn(playerID string) (*Participant, error) {
	p, ok := g.players[playerID]
	if !ok || p.left {
		return nil, ErrPlayerNotFound
	}

	if g.phase != PhasePlayerTurn {
		return nil, ErrWrongPhase
	}

	if len(g.turnQueue) == 0 || g.turnQueue[0] != playerID {
		return nil, ErrNotYourTurn
	}

	return p, nil
}

// dealWhenBetsIn deals as soon as every seated player who can bet has bet
func (g *Game) dealWhenBetsIn() {
	anyBet := false
	for _, id := range g.seats {
		p := g.players[id]
		if p.left {
			continue
		}

		if p.bet > 0 {
			anyBet = true
			continue
		}

		if p.balance > 0 {
			// still waiting on this player
			return
		}
	}

	if anyBet {
		g.deal()
	}
}

// deal puts out the initial two cards each, players first then the dealer,
// repeated twice. A natural blackjack on either side settles the round
// immediately; otherwise the turn queue forms in join order.
func (g *Game) deal() {
	g.phase = PhaseDealing

	betting := g.bettingPlayers()
	for i := 0; i < 2; i++ {
		for _, p := range betting {
			p.addCard(g.draw())
		}

		g.dealerHand.AddCard(g.draw())
	}

	natural := IsNaturalBlackjack(g.dealerHand)
	for _, p := range betting {
		if IsNaturalBlackjack(p.hand) {
			p.result = ResultBlackjack
			p.standing = true
			natural = true
		}
	}

	if natural {
		g.settle()
		return
	}

	g.turnQueue = make([]string, 0, len(betting))
	for _, p := range betting {
		g.turnQueue = append(g.turnQueue, p.PlayerID)
	}

	g.phase = PhasePlayerTurn
	g.logger.WithField("players", len(betting)).Info("cards dealt")
}

// hitPlayer draws one card and applies the bust / 21 / keep-the-turn outcome
func (g *Game) hitPlayer(p *Participant) {
	p.addCard(g.draw())

	switch score := Score(p.hand); {
	case score > blackjack:
		p.busted = true
		p.result = ResultBust
		g.advanceTurn()
	case score == blackjack:
		// 21 is terminal; the player cannot hit past it
		p.standing = true
		g.advanceTurn()
	}
}

// advanceTurn pops the head of the turn queue; an empty queue hands control
// to the dealer
func (g *Game) advanceTurn() {
	if len(g.turnQueue) > 0 {
		g.turnQueue = g.turnQueue[1:]
	}

	if len(g.turnQueue) == 0 {
		g.playDealer()
	}
}

// playDealer draws for the dealer until 17 or better, then settles. The score
// is already soft-adjusted, so the dealer stands on soft 17.
func (g *Game) playDealer() {
	g.phase = PhaseDealerTurn

	for Score(g.dealerHand) < dealerStandScore {
		g.dealerHand.AddCard(g.draw())
	}

	g.logger.WithFields(logrus.Fields{
		"hand":  g.dealerHand.String(),
		"score": Score(g.dealerHand),
	}).Info("dealer stands")

	g.settle()
}

// settle pays out every escrowed bet and fixes each player's result
func (g *Game) settle() {
	dealerScore := Score(g.dealerHand)
	dealerNatural := IsNaturalBlackjack(g.dealerHand)

	for _, id := range g.seats {
		p := g.players[id]
		if p.bet == 0 {
			continue
		}

		payout := 0
		switch {
		case p.left:
			p.result = ResultForfeit
		case p.result == ResultBlackjack:
			if dealerNatural {
				p.result = ResultPush
				payout = p.bet
			} else {
				payout = p.bet * 5 / 2
			}
		case p.busted:
			p.result = ResultBust
		default:
			score := Score(p.hand)
			switch {
			case dealerScore > blackjack || score > dealerScore:
				p.result = ResultWin
				payout = p.bet * 2
			case score < dealerScore:
				p.result = ResultLose
			default:
				p.result = ResultPush
				payout = p.bet
			}
		}

		if payout > 0 {
			p.balance += payout
			g.emit(game.NewBalanceUpdate(p.PlayerID, payout, p.balance))
		}

		g.logger.WithFields(logrus.Fields{
			"player": p.Name,
			"result": p.result,
			"payout": payout,
		}).Info("settled")

		p.bet = 0
	}

	g.turnQueue = nil
	g.phase = PhaseSettled
}

// bettingPlayers returns the players with an escrowed bet, in join order
func (g *Game) bettingPlayers() []*Participant {
	players := make([]*Participant, 0, len(g.seats))
	for _, id := range g.seats {
		if p := g.players[id]; p.bet > 0 && !p.left {
			players = append(players, p)
		}
	}

	return players
}

// purgePlayers drops departed players and players who are out of money
func (g *Game) purgePlayers() {
	g.purge(func(p *Participant) bool {
		return p.left || p.balance == 0
	})
}

// purgeDeparted drops only the players who left the table
func (g *Game) purgeDeparted() {
	g.purge(func(p *Participant) bool {
		return p.left
	})
}

func (g *Game) purge(gone func(*Participant) bool) {
	seats := make([]string, 0, len(g.seats))
	for _, id := range g.seats {
		p := g.players[id]
		if gone(p) {
			delete(g.players, id)
			continue
		}

		seats = append(seats, id)
	}

	g.seats = seats
}

// dropFromQueue removes the player from the turn queue wherever they sit
func (g *Game) dropFromQueue(playerID string) {
	queue := make([]string, 0, len(g.turnQueue))
	for _, id := range g.turnQueue {
		if id != playerID {
			queue = append(queue, id)
		}
	}

	g.turnQueue = queue
}

// resetRound clears the per-round state on the table and every survivor
func (g *Game) resetRound() {
	g.dealerHand = nil
	g.turnQueue = nil

	for _, p := range g.players {
		p.newRound()
	}
}

func (g *Game) anyoneSeated() bool {
	for _, p := range g.players {
		if !p.left {
			return true
		}
	}

	return false
}

// draw pulls the next card; the deck's low-water policy means this cannot fail
func (g *Game) draw() *deck.Card {
	card, err := g.deck.Draw()
	if err != nil {
		// unreachable with a non-zero low-water mark
		panic(fmt.Sprintf("deck could not produce a card: %v", err))
	}

	return card
}

func (g *Game) emit(events ...*game.Event) {
	select {
	case g.eventChan <- events:
	default:
	}
}
