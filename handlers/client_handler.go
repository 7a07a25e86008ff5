package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"swords-with-friends/server/messages"
	"swords-with-friends/server/network"
	"swords-with-friends/server/services"
)

// ClientHandler manages a single client connection
type ClientHandler struct {
	conn          *network.Connection
	sessionID     string
	gameService   *services.GameService
	clientManager *ClientManager
}

// HandleClientConnection serves one websocket until it closes. The client
// gets a fresh session id, which it passes to the HTTP lobby endpoints.
func HandleClientConnection(wsConn *websocket.Conn, gameService *services.GameService, clientManager *ClientManager) {
	conn := network.NewConnection(wsConn)
	handler := &ClientHandler{
		conn:          conn,
		sessionID:     uuid.NewString(),
		gameService:   gameService,
		clientManager: clientManager,
	}
	clientManager.AddClient(handler.sessionID, handler)
	log.Printf("New connection %s from %s (%d clients)", handler.sessionID, wsConn.RemoteAddr(), clientManager.Count())

	// Start the write pump in a goroutine
	go conn.WritePump()

	handler.send(messages.MessageTypeConnected, messages.ConnectedMessage{SessionID: handler.sessionID})
	handler.send(messages.MessageTypeCurrentGames, messages.CurrentGamesMessage{Games: gameService.JoinableGames()})

	// Handle the read pump in the current goroutine
	conn.ReadPump(handler)

	clientManager.RemoveClient(handler.sessionID)
	gameService.Disconnect(handler.sessionID)
	log.Printf("Connection %s closed", handler.sessionID)
}

func (h *ClientHandler) send(msgType messages.MessageType, payload interface{}) {
	msg := messages.BaseMessage{Type: msgType, Payload: payload}
	if err := h.conn.SendMessage(msg); err != nil {
		log.Printf("Error sending %s: %v", msgType, err)
	}
}

// HandleMessage handles incoming messages from the client. Invalid
// commands are dropped without a reply; only a failed reconnect is
// reported back.
func (h *ClientHandler) HandleMessage(conn *network.Connection, message []byte) {
	var baseMsg messages.BaseMessage
	if err := json.Unmarshal(message, &baseMsg); err != nil {
		log.Printf("Error unmarshaling message: %v", err)
		return
	}

	var err error
	switch baseMsg.Type {
	case messages.MessageTypeMovePlayer:
		var msg messages.MovePlayerMessage
		if decodePayload(baseMsg.Payload, &msg) {
			err = h.gameService.MovePlayer(h.sessionID, msg.GameID, msg.X, msg.Y)
		}
	case messages.MessageTypeUseItem:
		var msg messages.UseItemMessage
		if decodePayload(baseMsg.Payload, &msg) {
			err = h.gameService.UseItem(h.sessionID, msg.GameID, msg.X, msg.Y, msg.ItemID)
		}
	case messages.MessageTypeChangeName:
		var msg messages.ChangeNameMessage
		if decodePayload(baseMsg.Payload, &msg) {
			err = h.gameService.ChangeName(h.sessionID, msg.GameID, msg.Name)
		}
	case messages.MessageTypeChangeCharacter:
		var msg messages.ChangeCharacterMessage
		if decodePayload(baseMsg.Payload, &msg) {
			err = h.gameService.ChangeCharacter(h.sessionID, msg.GameID, msg.Character)
		}
	case messages.MessageTypeStartGame:
		var msg messages.GameCommandMessage
		if decodePayload(baseMsg.Payload, &msg) {
			err = h.gameService.StartGame(h.sessionID, msg.GameID)
		}
	case messages.MessageTypeLeaveGame:
		var msg messages.GameCommandMessage
		if decodePayload(baseMsg.Payload, &msg) {
			err = h.gameService.LeaveGame(h.sessionID, msg.GameID)
		}
	case messages.MessageTypeTryToReconnect:
		var msg messages.TryToReconnectMessage
		if !decodePayload(baseMsg.Payload, &msg) {
			h.send(messages.MessageTypeReconnectFailed, nil)
			return
		}
		err = h.gameService.Reconnect(h.sessionID, msg.GameID, msg.PlayerID)
	default:
		log.Printf("Unknown message type: %s", baseMsg.Type)
		return
	}

	if errors.Is(err, services.ErrReconnectFailed) {
		h.send(messages.MessageTypeReconnectFailed, nil)
	}
}

// decodePayload re-encodes the generic payload into its typed form
func decodePayload(payload interface{}, v interface{}) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling payload: %v", err)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("Error unmarshaling payload: %v", err)
		return false
	}
	return true
}
