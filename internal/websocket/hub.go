package websocket

import "github.com/rs/zerolog/log"

// Hub maintains the set of active clients and fans ticket change events out
// to the owner's connections. Events are delivery-only: nothing is persisted
// and a slow client is simply dropped.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Outbound events paired with the owner they belong to.
	events chan ownerEvent

	// A map of user IDs to the set of clients connected as that user.
	subscriptions map[int64]map[*Client]bool
}

type ownerEvent struct {
	ownerID int64
	message []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		events:        make(chan ownerEvent, 64),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[int64]map[*Client]bool),
	}
}

// Run starts the Hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			h.addSubscription(client)
			log.Info().Int("total_clients", len(h.clients)).Int64("user_id", client.UserID).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.removeSubscription(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case event := <-h.events:
			for client := range h.subscriptions[event.ownerID] {
				select {
				case client.Send <- event.message:
				default:
					close(client.Send)
					delete(h.clients, client)
					h.removeSubscription(client)
				}
			}
		}
	}
}

// PublishTo queues a message for every client connected as the given user.
// Safe to call from any goroutine.
func (h *Hub) PublishTo(userID int64, message []byte) {
	select {
	case h.events <- ownerEvent{ownerID: userID, message: message}:
	default:
		log.Warn().Int64("user_id", userID).Msg("Event channel full, dropping ticket event")
	}
}

func (h *Hub) addSubscription(client *Client) {
	if h.subscriptions[client.UserID] == nil {
		h.subscriptions[client.UserID] = make(map[*Client]bool)
	}
	h.subscriptions[client.UserID][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	if subs, ok := h.subscriptions[client.UserID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscriptions, client.UserID)
		}
	}
}
