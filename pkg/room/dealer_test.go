package room

import (
	"testing"
	"time"

	"cardtable-server/pkg/game"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDealer() *Dealer {
	d := NewDealer(logrus.StandardLogger(), Options{AdminPassword: "swordfish"})
	d.StartShift()
	return d
}

// addTestClient connects a client and consumes the initial table snapshot
func addTestClient(t *testing.T, d *Dealer) *Client {
	t.Helper()
	c := NewClient(nil)
	d.AddClient(c)

	snapshot := recv(t, c)
	require.Equal(t, "gameState", snapshot.Key)
	return c
}

func recv(t *testing.T, c *Client) *game.Response {
	t.Helper()
	select {
	case msg := <-c.SendChan():
		res, ok := msg.(*game.Response)
		require.True(t, ok)
		return res
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func send(c *Client, action, ctx string, data game.AdditionalData) {
	c.ReceivedMessage(&game.PayloadIn{
		Action:         action,
		AdditionalData: data,
		Context:        ctx,
	})
}

func TestDealer_Join(t *testing.T) {
	a := assert.New(t)
	d := testDealer()
	defer d.EndShift()

	c1 := addTestClient(t, d)
	c2 := addTestClient(t, d)

	send(c1, "join", "ctx-1", game.AdditionalData{"name": "Alice"})

	ok := recv(t, c1)
	a.Equal("OK", ok.Value)
	a.Equal("ctx-1", ok.Context)

	// everyone sees the updated table
	a.Equal("gameState", recv(t, c1).Key)
	a.Equal("gameState", recv(t, c2).Key)

	// the new seat gets its starting balance
	ev := recv(t, c1)
	a.Equal(game.EventBalanceUpdate, ev.Key)
}

func TestDealer_ActionWithoutSeat(t *testing.T) {
	a := assert.New(t)
	d := testDealer()
	defer d.EndShift()

	c := addTestClient(t, d)
	send(c, "placeBet", "ctx-1", game.AdditionalData{"amount": float64(10)})

	res := recv(t, c)
	a.Equal("error", res.Key)
	a.Equal("ctx-1", res.Context)
}

func TestDealer_SetAdmin(t *testing.T) {
	a := assert.New(t)
	d := testDealer()
	defer d.EndShift()

	c := addTestClient(t, d)

	send(c, "setAdmin", "ctx-1", game.AdditionalData{"password": "open sesame"})
	a.Equal("error", recv(t, c).Key)

	send(c, "setAdmin", "ctx-2", game.AdditionalData{"password": "swordfish"})
	a.Equal("OK", recv(t, c).Value)
}

func TestDealer_SetMode(t *testing.T) {
	a := assert.New(t)
	d := testDealer()
	defer d.EndShift()

	c := addTestClient(t, d)

	send(c, "setMode", "ctx-1", game.AdditionalData{"mode": "freedeal"})
	res := recv(t, c)
	a.Equal("error", res.Key)
	a.Equal(game.ErrNotAdmin.Error(), res.Value)

	send(c, "setAdmin", "", game.AdditionalData{"password": "swordfish"})
	a.Equal("OK", recv(t, c).Value)

	send(c, "setMode", "ctx-2", game.AdditionalData{"mode": "no-such-mode"})
	a.Equal("error", recv(t, c).Key)

	send(c, "setMode", "ctx-3", game.AdditionalData{"mode": "freedeal"})
	a.Equal("OK", recv(t, c).Value)

	state := recv(t, c)
	a.Equal("gameState", state.Key)
	a.Equal("freedeal", state.Value)
}

func TestDealer_AdminResetRevokesGrants(t *testing.T) {
	a := assert.New(t)
	d := testDealer()
	defer d.EndShift()

	c := addTestClient(t, d)

	send(c, "setAdmin", "", game.AdditionalData{"password": "swordfish"})
	a.Equal("OK", recv(t, c).Value)

	send(c, "adminReset", "ctx-1", nil)
	a.Equal("OK", recv(t, c).Value)
	a.Equal("gameState", recv(t, c).Key)

	// the reset also revoked the grant
	send(c, "setMode", "ctx-2", game.AdditionalData{"mode": "freedeal"})
	res := recv(t, c)
	a.Equal("error", res.Key)
	a.Equal(game.ErrNotAdmin.Error(), res.Value)
}

func TestDealer_Disconnect(t *testing.T) {
	a := assert.New(t)
	d := testDealer()
	defer d.EndShift()

	c1 := addTestClient(t, d)
	c2 := addTestClient(t, d)

	send(c1, "join", "", game.AdditionalData{"name": "Alice"})
	a.Equal("OK", recv(t, c1).Value)
	a.Equal("gameState", recv(t, c1).Key)
	a.Equal("gameState", recv(t, c2).Key)
	a.Equal(game.EventBalanceUpdate, recv(t, c1).Key)

	d.RemoveClient(c1)

	// the remaining client sees the seat vacated
	a.Equal("gameState", recv(t, c2).Key)

	a.Eventually(func() bool {
		return len(d.Clients()) == 1
	}, time.Second, 10*time.Millisecond)
}
