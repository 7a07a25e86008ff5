package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"swords-with-friends/server/persistence"
	"swords-with-friends/server/services"
)

const defaultResultsLimit = 20

// LobbyHandler serves the HTTP side of the lobby: create, join and list
// games, plus the finished-game archive
type LobbyHandler struct {
	games   *services.GameService
	results persistence.Storage
	origins map[string]bool
}

func NewLobbyHandler(games *services.GameService, results persistence.Storage, allowedOrigins []string) *LobbyHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &LobbyHandler{games: games, results: results, origins: origins}
}

// OriginAllowed reports whether a browser origin may talk to the server.
// With no configured origins everything is allowed.
func (h *LobbyHandler) OriginAllowed(origin string) bool {
	return len(h.origins) == 0 || origin == "" || h.origins[origin]
}

// Upgrader returns a websocket upgrader that applies the origin policy
func (h *LobbyHandler) Upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return h.OriginAllowed(r.Header.Get("Origin"))
		},
	}
}

// Register mounts the lobby routes on mux
func (h *LobbyHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/games", h.withCORS(h.createGame))
	mux.HandleFunc("POST /api/games/{gameId}", h.withCORS(h.joinGame))
	mux.HandleFunc("GET /api/games", h.withCORS(h.listGames))
	mux.HandleFunc("GET /api/results", h.withCORS(h.listResults))
	mux.HandleFunc("GET /api/results/{gameId}", h.withCORS(h.getResult))
	mux.HandleFunc("OPTIONS /api/", h.withCORS(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

// RegisterWebSocket mounts the game socket on mux
func (h *LobbyHandler) RegisterWebSocket(mux *http.ServeMux, clients *ClientManager) {
	upgrader := h.Upgrader()
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Failed to upgrade connection: %v", err)
			return
		}
		HandleClientConnection(conn, h.games, clients)
	})
}

func (h *LobbyHandler) withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if !h.OriginAllowed(origin) {
				http.Error(w, "origin not allowed", http.StatusForbidden)
				return
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST")
			w.Header().Set("Vary", "Origin")
		}
		next(w, r)
	}
}

func (h *LobbyHandler) createGame(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	snapshot, err := h.games.CreateGame(sessionID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeRaw(w, http.StatusCreated, snapshot)
}

func (h *LobbyHandler) joinGame(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	snapshot, err := h.games.JoinGame(r.PathValue("gameId"), sessionID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, snapshot)
}

func (h *LobbyHandler) listGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.games.JoinableGames())
}

func (h *LobbyHandler) listResults(w http.ResponseWriter, r *http.Request) {
	limit := defaultResultsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	results, err := h.results.ListGameResults(limit)
	if err != nil {
		log.Printf("Error listing results: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list results")
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *LobbyHandler) getResult(w http.ResponseWriter, r *http.Request) {
	result, err := h.results.LoadGameResult(r.PathValue("gameId"))
	if errors.Is(err, persistence.ErrResultNotFound) {
		writeError(w, http.StatusNotFound, "Result not found")
		return
	}
	if err != nil {
		log.Printf("Error loading result: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load result")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *LobbyHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrGameNotFound):
		writeError(w, http.StatusNotFound, "Game not found")
	case errors.Is(err, services.ErrGameNotJoinable):
		writeError(w, http.StatusConflict, "Game is not accepting players")
	case errors.Is(err, services.ErrInvalidCommand):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("Lobby request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type errorBody struct {
	Text string `json:"text"`
}

func writeError(w http.ResponseWriter, status int, text string) {
	writeJSON(w, status, errorBody{Text: text})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error encoding response: %v", err)
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, data)
}

func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
