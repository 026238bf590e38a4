package room

import "cardtable-server/pkg/game"

func newErrorResponse(ctx string, err error) *game.Response {
	return &game.Response{
		Key:     "error",
		Value:   err.Error(),
		Context: ctx,
	}
}

func newEventResponse(ev *game.Event) *game.Response {
	return &game.Response{
		Key:  ev.Type,
		Data: ev,
	}
}
