package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client represents a connected WebSocket client
type Client struct {
	Hub      *Hub
	ID       uint
	UserRole string // "customer", "employee" or "admin"
	Conn     *websocket.Conn
	Send     chan []byte
}

// Hub manages all WebSocket connections
type Hub struct {
	// Registered clients
	Clients map[uint]*Client

	// Broadcast channel for messages to all clients
	Broadcast chan *Message

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	mu sync.RWMutex
}

// Message represents a progress-update message pushed to clients
type Message struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[uint]*Client),
		Broadcast:  make(chan *Message),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			// A reconnect from the same user displaces the old connection;
			// closing its send channel makes its write pump shut the socket.
			if old, ok := h.Clients[client.ID]; ok && old != client {
				close(old.Send)
			}
			h.Clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("🔌 Client registered: ID=%d, Role=%s", client.ID, client.UserRole)

		case client := <-h.Unregister:
			h.mu.Lock()
			// Only drop the entry if it still belongs to this client, so a
			// displaced connection cannot tear down its replacement.
			if current, ok := h.Clients[client.ID]; ok && current == client {
				delete(h.Clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("🔌 Client unregistered: ID=%d, Role=%s", client.ID, client.UserRole)

		case message := <-h.Broadcast:
			h.broadcastMessage(message)
		}
	}
}

// broadcastMessage sends a message to all connected clients
func (h *Hub) broadcastMessage(message *Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ Error marshaling message: %v", err)
		return
	}

	for _, client := range h.Clients {
		select {
		case client.Send <- data:
		default:
			close(client.Send)
			delete(h.Clients, client.ID)
		}
	}
}

// SendToUser sends a message to a specific user
func (h *Hub) SendToUser(userID uint, message *Message) {
	h.mu.RLock()
	client, exists := h.Clients[userID]
	h.mu.RUnlock()

	if !exists {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ Error marshaling message: %v", err)
		return
	}

	select {
	case client.Send <- data:
	default:
		log.Printf("⚠️ User %d's send buffer is full", userID)
	}
}

// SendToRole sends a message to all connected clients with the given role
func (h *Hub) SendToRole(role string, message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.Clients {
		if client.UserRole != role {
			continue
		}
		select {
		case client.Send <- data:
		default:
			log.Printf("⚠️ User %d's send buffer is full", client.ID)
		}
	}
}
