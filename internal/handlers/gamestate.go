package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tonymach/neuro-narrator/internal/engine"
	"github.com/tonymach/neuro-narrator/pkg/world"
)

// GameStateResponse is the body returned by GET /game-state.
type GameStateResponse struct {
	WorldState world.Snapshot  `json:"worldState"`
	AIState    *engine.AIState `json:"aiState"`
}

// GameStateHandler reports the current world and cognitive state without
// advancing the game.
type GameStateHandler struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewGameStateHandler(engine *engine.Engine, logger *slog.Logger) *GameStateHandler {
	return &GameStateHandler{
		engine: engine,
		logger: logger,
	}
}

func (h *GameStateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		h.logger.Warn("Method not allowed for game state endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	aiState, err := h.engine.AIState(r.Context())
	if err != nil {
		h.logger.Error("Failed to build AI state", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "An error occurred while fetching game state")
		return
	}

	w.WriteHeader(http.StatusOK)
	response := GameStateResponse{
		WorldState: h.engine.WorldSnapshot(),
		AIState:    aiState,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode game state response", "error", err)
	}
}
