package room

import (
	"fmt"

	"cardtable-server/pkg/blackjack"
	"cardtable-server/pkg/freedeal"
	"cardtable-server/pkg/game"

	"github.com/sirupsen/logrus"
)

// DefaultMode is the mode a fresh table starts in
const DefaultMode = "blackjack"

// ModeFactory creates a fresh game mode
type ModeFactory func(logger logrus.FieldLogger, opts Options) game.Mode

var modeFactories = map[string]ModeFactory{
	"blackjack": func(logger logrus.FieldLogger, opts Options) game.Mode {
		return blackjack.NewGame(logger, opts.Blackjack)
	},
	"freedeal": func(logger logrus.FieldLogger, opts Options) game.Mode {
		return freedeal.NewTable(logger)
	},
}

// newMode returns a fresh mode by name
func newMode(name string, logger logrus.FieldLogger, opts Options) (game.Mode, error) {
	factory, ok := modeFactories[name]
	if !ok {
		return nil, fmt.Errorf("no mode with name: %s", name)
	}

	return factory(logger, opts), nil
}
