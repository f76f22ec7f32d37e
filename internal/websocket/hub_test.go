package websocket_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/booking-api/internal/websocket"
)

func receive(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for hub message")
		return nil
	}
}

func TestHub_PublishTo(t *testing.T) {
	hub := websocket.NewHub()
	go hub.Run()

	alice := websocket.NewClient(hub, nil, 1)
	bob := websocket.NewClient(hub, nil, 2)
	hub.Register <- alice
	hub.Register <- bob

	payload, err := websocket.NewTicketEvent("ticket.created", map[string]string{"hotel": "H"})
	require.NoError(t, err)
	hub.PublishTo(1, payload)

	msg := receive(t, alice.Send)

	var decoded websocket.Message
	require.NoError(t, json.Unmarshal(msg, &decoded))
	assert.Equal(t, "ticket.created", decoded.Action)

	// Bob must not see Alice's events.
	select {
	case unexpected := <-bob.Send:
		t.Fatalf("event leaked across users: %s", unexpected)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_MultipleConnectionsPerUser(t *testing.T) {
	hub := websocket.NewHub()
	go hub.Run()

	first := websocket.NewClient(hub, nil, 1)
	second := websocket.NewClient(hub, nil, 1)
	hub.Register <- first
	hub.Register <- second

	hub.PublishTo(1, []byte(`{"action":"ticket.deleted"}`))

	assert.NotEmpty(t, receive(t, first.Send))
	assert.NotEmpty(t, receive(t, second.Send))
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := websocket.NewHub()
	go hub.Run()

	client := websocket.NewClient(hub, nil, 1)
	hub.Register <- client
	hub.Unregister <- client

	select {
	case _, open := <-client.Send:
		assert.False(t, open, "send channel should be closed after unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}
