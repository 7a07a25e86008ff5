package persistence

import (
	"errors"

	"swords-with-friends/server/models"
)

// ErrResultNotFound is returned when no result is stored for a game
var ErrResultNotFound = errors.New("game result not found")

// Storage defines the interface for the finished-game archive
type Storage interface {
	SaveGameResult(result *models.GameResult) error
	LoadGameResult(gameID string) (*models.GameResult, error)
	// ListGameResults returns up to limit results, most recently finished
	// first. A limit of zero or less returns everything.
	ListGameResults(limit int) ([]*models.GameResult, error)
	Close() error
}
