package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains the set of connected station clients and fans events out to
// them. Stations are terminals on the line that render pocket state; every
// successful pocket update is pushed so neighboring terminals stay current.
type Hub struct {
	// Registered clients map: StationID -> Client
	clients map[string]*Client

	// Register requests
	register chan *Client

	// Unregister requests
	unregister chan *Client

	// Outbound fan-out
	broadcast chan []byte

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		clients:    make(map[string]*Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if client.StationID != "" {
				// An identifying client replaces its own earlier entry;
				// without this the anonymous id would keep receiving
				for id, existing := range h.clients {
					if existing == client && id != client.StationID {
						delete(h.clients, id)
					}
				}
				// If a station reconnects, close the old connection
				if old, ok := h.clients[client.StationID]; ok && old != client {
					old.closeSend()
					delete(h.clients, client.StationID)
				}
				h.clients[client.StationID] = client
				log.Printf("🖥️ Station connected: %s", client.StationID)
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			// A replaced connection unregisters under an id that now
			// belongs to its successor; evict only the client itself
			if existing, ok := h.clients[client.StationID]; ok && existing == client {
				delete(h.clients, client.StationID)
				log.Printf("📴 Station disconnected: %s", client.StationID)
			}
			client.closeSend()
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				client.trySend(message)
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a message to every connected station.
func (h *Hub) Broadcast(message interface{}) {
	jsonMsg, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}
	select {
	case h.broadcast <- jsonMsg:
	default:
		log.Printf("⚠️ Broadcast queue full, dropping event")
	}
}

// SendToStation sends a message to a specific station
func (h *Hub) SendToStation(stationID string, message interface{}) bool {
	h.mu.RLock()
	client, ok := h.clients[stationID]
	h.mu.RUnlock()

	if !ok {
		return false
	}

	jsonMsg, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return false
	}
	return client.trySend(jsonMsg)
}
