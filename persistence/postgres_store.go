package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"swords-with-friends/server/models"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore keeps the results archive in PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects and makes sure the schema exists
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %v", err)
	}

	return store, nil
}

func (dm *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS game_results (
		game_id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		turns INTEGER NOT NULL,
		deepest_level INTEGER NOT NULL,
		players JSONB NOT NULL,
		started_at TIMESTAMP WITH TIME ZONE NOT NULL,
		finished_at TIMESTAMP WITH TIME ZONE NOT NULL
	);

	CREATE INDEX IF NOT EXISTS game_results_finished_at_idx ON game_results (finished_at DESC);
	`

	_, err := dm.db.Exec(schema)
	return err
}

// SaveGameResult stores result, replacing any earlier result of the game
func (dm *PostgresStore) SaveGameResult(result *models.GameResult) error {
	playersJSON, err := json.Marshal(result.Players)
	if err != nil {
		return fmt.Errorf("failed to marshal result players: %v", err)
	}

	query := `
	INSERT INTO game_results (game_id, status, turns, deepest_level, players, started_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (game_id)
	DO UPDATE SET
		status = $2, turns = $3, deepest_level = $4, players = $5,
		started_at = $6, finished_at = $7
	`

	_, err = dm.db.Exec(query,
		result.GameID, string(result.Status), result.Turns, result.DeepestLevel,
		string(playersJSON), result.StartedAt, result.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to save game result: %v", err)
	}

	return nil
}

const resultColumns = `game_id, status, turns, deepest_level, players, started_at, finished_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*models.GameResult, error) {
	var result models.GameResult
	var status string
	var playersJSON []byte

	if err := row.Scan(
		&result.GameID, &status, &result.Turns, &result.DeepestLevel,
		&playersJSON, &result.StartedAt, &result.FinishedAt,
	); err != nil {
		return nil, err
	}
	result.Status = models.GameStatus(status)

	if err := json.Unmarshal(playersJSON, &result.Players); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result players: %v", err)
	}
	return &result, nil
}

// LoadGameResult loads the result of gameID
func (dm *PostgresStore) LoadGameResult(gameID string) (*models.GameResult, error) {
	query := `SELECT ` + resultColumns + ` FROM game_results WHERE game_id = $1`

	result, err := scanResult(dm.db.QueryRow(query, gameID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("game %s: %w", gameID, ErrResultNotFound)
		}
		return nil, fmt.Errorf("failed to load game result: %v", err)
	}
	return result, nil
}

// ListGameResults returns the most recently finished results first
func (dm *PostgresStore) ListGameResults(limit int) ([]*models.GameResult, error) {
	query := `SELECT ` + resultColumns + ` FROM game_results ORDER BY finished_at DESC, game_id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := dm.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list game results: %v", err)
	}
	defer rows.Close()

	results := make([]*models.GameResult, 0)
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read game result: %v", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list game results: %v", err)
	}
	return results, nil
}

// Close closes the database connection
func (dm *PostgresStore) Close() error {
	log.Println("Closing database connection...")
	return dm.db.Close()
}
