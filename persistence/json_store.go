package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"swords-with-friends/server/models"
)

// JSONStore keeps the results archive in a local JSON file
type JSONStore struct {
	filePath string
	mutex    sync.RWMutex
	data     *JSONData
}

// JSONData represents the structure of the JSON database
type JSONData struct {
	Results map[string]*models.GameResult `json:"results"`
}

// NewJSONStore opens filePath, creating it when missing
func NewJSONStore(filePath string) (*JSONStore, error) {
	store := &JSONStore{
		filePath: filePath,
		data: &JSONData{
			Results: make(map[string]*models.GameResult),
		},
	}

	if _, err := os.Stat(filePath); err == nil {
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load JSON store: %v", err)
		}
	} else {
		store.mutex.Lock()
		err := store.saveLocked()
		store.mutex.Unlock()
		if err != nil {
			return nil, fmt.Errorf("failed to create JSON store file: %v", err)
		}
	}

	return store, nil
}

func (js *JSONStore) loadFromFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(file, js.data); err != nil {
		return err
	}
	if js.data.Results == nil {
		js.data.Results = make(map[string]*models.GameResult)
	}
	return nil
}

// saveLocked writes the whole archive; the caller holds the write lock
func (js *JSONStore) saveLocked() error {
	data, err := json.MarshalIndent(js.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := js.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, js.filePath)
}

// SaveGameResult stores result, replacing any earlier result of the game
func (js *JSONStore) SaveGameResult(result *models.GameResult) error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	js.data.Results[result.GameID] = result
	if err := js.saveLocked(); err != nil {
		return fmt.Errorf("failed to save game result: %v", err)
	}
	return nil
}

// LoadGameResult loads the result of gameID
func (js *JSONStore) LoadGameResult(gameID string) (*models.GameResult, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	result, exists := js.data.Results[gameID]
	if !exists {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrResultNotFound)
	}
	return result, nil
}

// ListGameResults returns the most recently finished results first
func (js *JSONStore) ListGameResults(limit int) ([]*models.GameResult, error) {
	js.mutex.RLock()
	results := make([]*models.GameResult, 0, len(js.data.Results))
	for _, result := range js.data.Results {
		results = append(results, result)
	}
	js.mutex.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if !results[i].FinishedAt.Equal(results[j].FinishedAt) {
			return results[i].FinishedAt.After(results[j].FinishedAt)
		}
		return results[i].GameID < results[j].GameID
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Close closes the store (no-op for JSON store)
func (js *JSONStore) Close() error {
	return nil
}
