package blackjack

import "errors"

// ErrWrongPhase is returned when a command is not valid in the current phase
var ErrWrongPhase = errors.New("that action is not valid in the current phase")

// ErrNotYourTurn is returned when a player acts out of turn
var ErrNotYourTurn = errors.New("it is not your turn")

// ErrPlayerNotFound is returned when the player never joined the table
var ErrPlayerNotFound = errors.New("player not found")

// ErrAlreadyBet is returned when a player bets twice in one round
var ErrAlreadyBet = errors.New("you already placed a bet this round")

// ErrInvalidBetAmount is returned when a bet is out of range
var ErrInvalidBetAmount = errors.New("bet must be at least 1 and no more than your balance")

// ErrInsufficientBalance is returned when a double cannot be covered
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrCannotDouble is returned when doubling down after the first two cards
var ErrCannotDouble = errors.New("you can only double down on your first two cards")
