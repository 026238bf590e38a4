package game

// Mode is a game mode hosted at the table. The room dealer owns exactly one
// active mode and serializes every call into it, so implementations do not
// need their own locking.
type Mode interface {
	// Name returns the name of the mode
	Name() string

	// Join seats a new player at the table
	Join(playerID, name string) error

	// Leave handles a player leaving the table mid-game
	Leave(playerID string)

	// Action performs an action for the player.
	// If playerResponse is not nil, that's the response sent directly to the client.
	// If updateState is true, it will trigger a state broadcast to all connected clients.
	Action(playerID string, isAdmin bool, message *PayloadIn) (playerResponse *Response, updateState bool, err error)

	// State returns the full table snapshot that is safe to broadcast to everyone
	State() *Response

	// Events returns a channel the mode sends targeted events to
	Events() <-chan []*Event
}

// PayloadIn is the format we expect from the JS client
type PayloadIn struct {
	Action         string         `json:"action"`
	AdditionalData AdditionalData `json:"additionalData"`
	// Context will be passed back on any outgoing message
	Context string `json:"context"`
}

// Response is a container to determine who gets the specified message
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value"`
	Data    interface{} `json:"data"`
	Context string      `json:"context"`
}

// OK returns a generic success response
func OK(ctx ...string) *Response {
	res := &Response{
		Key:   "status",
		Value: "OK",
	}

	if len(ctx) == 1 {
		res.Context = ctx[0]
	}

	return res
}

// AdditionalData provides additional data in a payload
type AdditionalData map[string]interface{}

// GetString returns a string for the given key
func (a AdditionalData) GetString(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// GetInt returns an integer value for the given key
func (a AdditionalData) GetInt(key string) (int, bool) {
	floatVal, ok := a[key].(float64)
	if !ok {
		return 0, false
	}

	return int(floatVal), true
}

// GetBool returns a boolean value for the given key
func (a AdditionalData) GetBool(key string) (bool, bool) {
	boolVal, ok := a[key].(bool)
	return boolVal, ok
}
