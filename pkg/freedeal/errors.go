package freedeal

import "errors"

// ErrNoPlayers is returned when dealing to an empty table
var ErrNoPlayers = errors.New("no players at the table")

// ErrNotEnoughCards is returned when the stock cannot cover a deal
var ErrNotEnoughCards = errors.New("not enough cards left, shuffle first")

// ErrPlayerNotFound is returned when the target player never joined
var ErrPlayerNotFound = errors.New("player not found")

// ErrInvalidCardIndex is returned for an out-of-range center card index
var ErrInvalidCardIndex = errors.New("invalid card index")
