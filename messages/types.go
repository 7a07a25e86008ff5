package messages

import (
	"encoding/json"

	"swords-with-friends/server/models"
)

// MessageType defines the type of message being sent
type MessageType string

// Inbound commands
const (
	MessageTypeMovePlayer      MessageType = "movePlayer"
	MessageTypeUseItem         MessageType = "useItem"
	MessageTypeChangeName      MessageType = "changeName"
	MessageTypeChangeCharacter MessageType = "changeCharacter"
	MessageTypeStartGame       MessageType = "startGame"
	MessageTypeLeaveGame       MessageType = "leaveGame"
	MessageTypeTryToReconnect  MessageType = "tryToReconnect"
)

// Outbound events
const (
	MessageTypeConnected            MessageType = "connected"
	MessageTypePlayerActionQueued   MessageType = "playerActionQueued"
	MessageTypeTurnEnd              MessageType = "turnEnd"
	MessageTypeGameWon              MessageType = "gameWon"
	MessageTypeGameLost             MessageType = "gameLost"
	MessageTypeGameStarted          MessageType = "gameStarted"
	MessageTypePlayersChangedInGame MessageType = "playersChangedInGame"
	MessageTypeNameChanged          MessageType = "nameChanged"
	MessageTypeCharacterChanged     MessageType = "characterChanged"
	MessageTypeGameClosed           MessageType = "gameClosed"
	MessageTypeReconnectSuccessful  MessageType = "reconnectSuccessful"
	MessageTypeReconnectFailed      MessageType = "reconnectFailed"
	MessageTypeCurrentGames         MessageType = "currentGames"
)

// BaseMessage is the base structure for all messages
type BaseMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ConnectedMessage hands the client its session handle
type ConnectedMessage struct {
	SessionID string `json:"sessionId"`
}

// MovePlayerMessage asks to move (or attack) towards a cell
type MovePlayerMessage struct {
	GameID string `json:"gameId"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// UseItemMessage asks to use an inventory item on a cell
type UseItemMessage struct {
	GameID string `json:"gameId"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	ItemID string `json:"itemId"`
}

type ChangeNameMessage struct {
	GameID string `json:"gameId"`
	Name   string `json:"name"`
}

type ChangeCharacterMessage struct {
	GameID    string               `json:"gameId"`
	Character models.CharacterName `json:"character"`
}

// GameCommandMessage carries commands that only name a game (start, leave)
type GameCommandMessage struct {
	GameID string `json:"gameId"`
}

type TryToReconnectMessage struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
}

// PlayerActionQueuedMessage announces a player's pending action
type PlayerActionQueuedMessage struct {
	GameID   string               `json:"gameId"`
	PlayerID string               `json:"playerId"`
	Action   *models.PlayerAction `json:"action"`
}

// GameSnapshotMessage carries a full game snapshot (turn end, won, lost,
// started, roster changes, reconnects)
type GameSnapshotMessage struct {
	GameID string       `json:"gameId"`
	Game   *models.Game `json:"game"`
}

// PlayersMessage carries the roster after a lobby edit
type PlayersMessage struct {
	GameID  string           `json:"gameId"`
	Players []*models.Player `json:"players"`
}

type GameClosedMessage struct {
	GameID string `json:"gameId"`
}

// CurrentGamesMessage lists joinable games. Each entry is an already
// encoded game snapshot.
type CurrentGamesMessage struct {
	Games []json.RawMessage `json:"games"`
}
