package handlers

import (
	"log"
	"sync"

	"swords-with-friends/server/services"
)

// ClientManager manages connected clients, keyed by session id. It is the
// services.Publisher the game service delivers events through.
type ClientManager struct {
	clients map[string]*ClientHandler
	mutex   sync.RWMutex
}

// NewClientManager creates a new client manager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[string]*ClientHandler),
	}
}

// AddClient adds a client to the manager
func (cm *ClientManager) AddClient(sessionID string, handler *ClientHandler) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	cm.clients[sessionID] = handler
}

// RemoveClient removes a client from the manager
func (cm *ClientManager) RemoveClient(sessionID string) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	delete(cm.clients, sessionID)
}

// Count returns the number of connected clients
func (cm *ClientManager) Count() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.clients)
}

// Publish delivers each event to its recipients, or to every client when
// the event has none
func (cm *ClientManager) Publish(events ...services.Event) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	for _, ev := range events {
		if ev.Recipients == nil {
			for _, client := range cm.clients {
				client.conn.Send(ev.Data)
			}
			continue
		}
		for _, sessionID := range ev.Recipients {
			client, ok := cm.clients[sessionID]
			if !ok {
				continue
			}
			if !client.conn.Send(ev.Data) {
				log.Printf("Dropped message for session %s", sessionID)
			}
		}
	}
}
