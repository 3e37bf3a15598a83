package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tonymach/neuro-narrator/internal/engine"
	"github.com/tonymach/neuro-narrator/pkg/chat"
	"github.com/tonymach/neuro-narrator/pkg/world"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// GameActionResponse is the body returned by POST /game-action.
type GameActionResponse struct {
	Responses  []chat.SpeakerResponse `json:"responses"`
	WorldState world.Snapshot         `json:"worldState"`
	AIState    *engine.AIState        `json:"aiState"`
}

// GameActionHandler runs one game turn per request.
type GameActionHandler struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewGameActionHandler(engine *engine.Engine, logger *slog.Logger) *GameActionHandler {
	return &GameActionHandler{
		engine: engine,
		logger: logger,
	}
}

func (h *GameActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for game action endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var req chat.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.logger.Warn("Invalid game action request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Action is required")
		return
	}

	h.logger.Info("Processing game action", "action", req.Action)

	responses, err := h.engine.Turn(r.Context(), req.Action)
	if err != nil {
		h.logger.Error("Game turn failed", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "An error occurred")
		return
	}

	aiState, err := h.engine.AIState(r.Context())
	if err != nil {
		h.logger.Error("Failed to build AI state", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "An error occurred")
		return
	}

	w.WriteHeader(http.StatusOK)
	response := GameActionResponse{
		Responses:  responses,
		WorldState: h.engine.WorldSnapshot(),
		AIState:    aiState,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode game action response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		logger.Error("Failed to encode error response", "error", err)
	}
}
