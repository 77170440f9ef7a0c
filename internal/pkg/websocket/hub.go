package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	// Registered clients organized by group ID
	clients map[string]map[*Client]bool

	// Channel for inbound messages from clients
	broadcast chan *Message

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	// Mutex for message listeners
	listenersMu sync.RWMutex

	// Message listeners
	messageListeners []chan *Message

	logger zerolog.Logger
}

// Message represents a chat message sent over WebSocket
type Message struct {
	// Type of message: "text"
	Type string `json:"type"`

	// Group this message belongs to
	GroupID string `json:"groupId"`

	// User who sent the message
	SenderID string `json:"senderId"`

	// Display name of the sender at send time
	SenderName string `json:"senderName"`

	// Message content
	Text string `json:"text"`

	// Timestamp when the message was sent
	Timestamp time.Time `json:"timestamp"`

	// Message ID from the database
	ID string `json:"id,omitempty"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:        make(chan *Message),
		register:         make(chan *Client),
		unregister:       make(chan *Client),
		clients:          make(map[string]map[*Client]bool),
		messageListeners: []chan *Message{},
		logger:           logger,
	}
}

// Run starts the hub, handling client registrations, broadcasts, etc.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	groupID := client.groupID
	if _, ok := h.clients[groupID]; !ok {
		h.clients[groupID] = make(map[*Client]bool)
	}
	h.clients[groupID][client] = true

	h.logger.Info().
		Str("groupID", groupID).
		Str("userID", client.userID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	groupID := client.groupID
	if _, ok := h.clients[groupID]; ok {
		if _, ok := h.clients[groupID][client]; ok {
			delete(h.clients[groupID], client)
			close(client.send)

			if len(h.clients[groupID]) == 0 {
				delete(h.clients, groupID)
			}

			h.logger.Info().
				Str("groupID", groupID).
				Str("userID", client.userID).
				Msg("Client unregistered")
		}
	}
}

// broadcastMessage broadcasts a message to all clients in a specific group
func (h *Hub) broadcastMessage(message *Message) {
	h.notifyMessageListeners(message)

	groupID := message.GroupID

	h.mu.RLock()
	clients, ok := h.clients[groupID]
	if !ok {
		h.mu.RUnlock()
		h.logger.Debug().
			Str("groupID", groupID).
			Msg("No clients in group for broadcast")
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.mu.RUnlock()
		h.logger.Error().
			Err(err).
			Str("groupID", groupID).
			Msg("Failed to marshal message for broadcast")
		return
	}

	var slow []*Client
	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Client's send buffer is full, they might be slow or disconnected
			slow = append(slow, client)
		}
	}
	clientCount := len(clients)
	h.mu.RUnlock()

	// Evict inline; the hub goroutine is the only receiver on h.unregister,
	// so sending to it from here would block forever
	for _, client := range slow {
		h.unregisterClient(client)
	}

	h.logger.Debug().
		Str("groupID", groupID).
		Int("clientCount", clientCount).
		Msg("Message broadcasted to group")
}

func (h *Hub) notifyMessageListeners(message *Message) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.messageListeners {
		// Non-blocking send so a slow listener cannot stall the hub
		select {
		case listener <- message:
		default:
			h.logger.Warn().Msg("Skipped slow message listener")
		}
	}
}

// BroadcastToGroup sends a message to all connected clients in a group
func (h *Hub) BroadcastToGroup(message *Message) {
	h.broadcast <- message
}

// GetClientsCount returns the number of connected clients for a group
func (h *Hub) GetClientsCount(groupID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.clients[groupID]; ok {
		return len(clients)
	}
	return 0
}

// AddMessageListener registers a channel to receive all messages
func (h *Hub) AddMessageListener(listener chan *Message) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	h.messageListeners = append(h.messageListeners, listener)
}

// RemoveMessageListener removes a listener from the hub
func (h *Hub) RemoveMessageListener(listener chan *Message) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.messageListeners {
		if l == listener {
			h.messageListeners[i] = h.messageListeners[len(h.messageListeners)-1]
			h.messageListeners = h.messageListeners[:len(h.messageListeners)-1]
			break
		}
	}
}
