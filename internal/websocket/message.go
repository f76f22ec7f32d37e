package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewTicketEvent encodes a ticket change notification for the wire. Actions
// are "ticket.created", "ticket.updated" and "ticket.deleted".
func NewTicketEvent(action string, payload interface{}) ([]byte, error) {
	return json.Marshal(Message{Action: action, Payload: payload})
}
