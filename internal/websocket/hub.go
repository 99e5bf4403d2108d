package websocket

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/folio-be/internal/metrics"
)

type userMessage struct {
	userID  int64
	message []byte

	// only set for replies addressed to one connection
	client *Client
}

// Hub maintains the set of active clients and routes messages to the
// connections of a single user.
type Hub struct {
	// Registered clients, grouped by the user they authenticated as.
	clients map[int64]map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Messages addressed to one user's connections.
	publish chan userMessage

	done     chan struct{}
	stopOnce sync.Once
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan userMessage, 64),
		done:       make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			metrics.WebSocketClients.Inc()
			log.Info().Int64("user_id", client.UserID).Int("user_clients", len(h.clients[client.UserID])).Msg("Client connected")
		case client := <-h.unregister:
			if h.remove(client) {
				log.Info().Int64("user_id", client.UserID).Msg("Client disconnected")
			}
		case msg := <-h.publish:
			for client := range h.clients[msg.userID] {
				if msg.client != nil && msg.client != client {
					continue
				}
				select {
				case client.Send <- msg.message:
				default:
					// slow consumer
					h.remove(client)
					log.Warn().Int64("user_id", client.UserID).Msg("Dropped websocket client with full send buffer")
				}
			}
		case <-h.done:
			for _, set := range h.clients {
				for client := range set {
					h.remove(client)
				}
			}
			return
		}
	}
}

// Stop ends Run and closes every client's send channel.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Register adds a client. It reports false once the hub has stopped, in which
// case the caller still owns the connection.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// PublishToUser queues message for every connection of userID.
func (h *Hub) PublishToUser(userID int64, message []byte) {
	select {
	case h.publish <- userMessage{userID: userID, message: message}:
	case <-h.done:
	}
}

func (h *Hub) reply(client *Client, message []byte) {
	select {
	case h.publish <- userMessage{userID: client.UserID, message: message, client: client}:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) bool {
	set, ok := h.clients[client.UserID]
	if !ok || !set[client] {
		return false
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.UserID)
	}
	close(client.Send)
	metrics.WebSocketClients.Dec()
	return true
}
