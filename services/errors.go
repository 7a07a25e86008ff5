package services

import "errors"

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrGameNotJoinable = errors.New("game is not accepting players")
	ErrNotHost         = errors.New("only the host can do that")
	ErrReconnectFailed = errors.New("reconnect failed")
	ErrInvalidCommand  = errors.New("invalid command")
)
