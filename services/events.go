package services

import (
	"encoding/json"
	"log"
	"time"

	"swords-with-friends/server/messages"
	"swords-with-friends/server/models"
)

// Event is an outbound message. It is encoded while the game lock is held
// and delivered after the lock is released.
type Event struct {
	// Recipients are session ids; nil means every connected client
	Recipients []string
	Data       []byte
}

// Publisher delivers events to connected clients
type Publisher interface {
	Publish(events ...Event)
}

// Scheduler runs f once after d
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// ResultArchive stores the outcome of finished games
type ResultArchive interface {
	SaveGameResult(result *models.GameResult) error
}

// newEvent encodes a message for the given recipients. Encoding failures
// are logged and yield ok=false.
func newEvent(recipients []string, msgType messages.MessageType, payload interface{}) (Event, bool) {
	data, err := json.Marshal(messages.BaseMessage{Type: msgType, Payload: payload})
	if err != nil {
		log.Printf("Error encoding %s message: %v", msgType, err)
		return Event{}, false
	}
	return Event{Recipients: recipients, Data: data}, true
}

// gameEvent addresses a message to every connected player of g
func gameEvent(g *models.Game, msgType messages.MessageType, payload interface{}) []Event {
	recipients := g.ConnectedSessions()
	if len(recipients) == 0 {
		return nil
	}
	if ev, ok := newEvent(recipients, msgType, payload); ok {
		return []Event{ev}
	}
	return nil
}

// snapshotEvent addresses a full snapshot of g to its players
func snapshotEvent(g *models.Game, msgType messages.MessageType) []Event {
	return gameEvent(g, msgType, messages.GameSnapshotMessage{GameID: g.ID, Game: g})
}

// broadcastEvent addresses a message to every connected client
func broadcastEvent(msgType messages.MessageType, payload interface{}) []Event {
	if ev, ok := newEvent(nil, msgType, payload); ok {
		return []Event{ev}
	}
	return nil
}
