package room

import (
	"sync"

	"cardtable-server/internal/util"
	"cardtable-server/pkg/blackjack"
	"cardtable-server/pkg/game"

	"github.com/sirupsen/logrus"
)

// Options configures the table hosted by the dealer
type Options struct {
	Blackjack         blackjack.Options
	AdminPassword     string
	AdminPasswordHash string
}

// Dealer owns the single table. Its run loop is the only goroutine that
// touches the mode, the gate and the broadcasting, so every command executes
// to completion before the next one starts.
type Dealer struct {
	logger logrus.FieldLogger
	opts   Options
	gate   *AdminGate
	mode   game.Mode

	clients map[string]*Client
	lock    sync.RWMutex

	execInRunLoop chan func()
	close         chan bool
}

// NewDealer creates a new dealer hosting the default mode
func NewDealer(logger logrus.FieldLogger, opts Options) *Dealer {
	mode, err := newMode(DefaultMode, logger, opts)
	if err != nil {
		panic(err)
	}

	return &Dealer{
		logger:        logger,
		opts:          opts,
		gate:          NewAdminGate(opts.AdminPassword, opts.AdminPasswordHash),
		mode:          mode,
		clients:       make(map[string]*Client),
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
	}
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for _, client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

func (d *Dealer) runLoop() {
	d.logger.Debug("creating dealer run loop")
	for {
		select {
		case fn := <-d.execInRunLoop:
			fn()
		case events := <-d.mode.Events():
			d.sendEvents(events)
		case <-d.close:
			d.logger.Debug("terminating dealer run loop")
			return
		}
	}
}

// AddClient adds a client and sends it the current table snapshot
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client.ID] = client
	d.lock.Unlock()

	d.execInRunLoop <- func() {
		client.Send(d.mode.State())
	}
}

// RemoveClient removes a client; the player forfeits their seat
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) {
	d.lock.Lock()
	delete(d.clients, client.ID)
	d.lock.Unlock()

	d.execInRunLoop <- func() {
		d.gate.Revoke(client.ID)
		d.mode.Leave(client.ID)
		d.broadcastState()
	}
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *game.PayloadIn) {
	d.execInRunLoop <- func() {
		d.handleMessage(c, msg)
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleMessage(c *Client, msg *game.PayloadIn) {
	switch msg.Action {
	case "join":
		name, _ := msg.AdditionalData.GetString("name")
		if name == "" {
			name = util.GetRandomName()
		}

		if err := d.mode.Join(c.ID, name); err != nil {
			c.Send(newErrorResponse(msg.Context, err))
			return
		}

		c.Send(game.OK(msg.Context))
		d.broadcastState()
	case "setAdmin":
		password, _ := msg.AdditionalData.GetString("password")
		if err := d.gate.Authenticate(c.ID, password); err != nil {
			d.logger.WithField("client", c.String()).Warn("failed admin authentication")
			c.Send(newErrorResponse(msg.Context, err))
			return
		}

		d.logger.WithField("client", c.String()).Info("admin authenticated")
		c.Send(game.OK(msg.Context))
	case "setMode":
		if !d.gate.IsAdmin(c.ID) {
			c.Send(newErrorResponse(msg.Context, game.ErrNotAdmin))
			return
		}

		name, _ := msg.AdditionalData.GetString("mode")
		mode, err := newMode(name, d.logger, d.opts)
		if err != nil {
			c.Send(newErrorResponse(msg.Context, err))
			return
		}

		d.mode = mode
		d.logger.WithField("mode", name).Info("mode changed")
		c.Send(game.OK(msg.Context))
		d.broadcastState()
	default:
		res, updateState, err := d.mode.Action(c.ID, d.gate.IsAdmin(c.ID), msg)
		if err != nil {
			d.logger.WithError(err).WithFields(logrus.Fields{
				"client": c.String(),
				"action": msg.Action,
			}).Debug("could not perform action")
			c.Send(newErrorResponse(msg.Context, err))
			return
		}

		// a reset also clears every admin grant
		if msg.Action == "adminReset" {
			d.gate.Reset()
		}

		if res != nil {
			res.Context = msg.Context
			c.Send(res)
		}

		if updateState {
			d.broadcastState()
		}
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) broadcastState() {
	state := d.mode.State()
	for _, client := range d.Clients() {
		client.Send(state)
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendEvents(events []*game.Event) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	for _, ev := range events {
		if client, ok := d.clients[ev.PlayerID]; ok {
			client.Send(newEventResponse(ev))
		}
	}
}
