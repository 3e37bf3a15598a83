package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonymach/neuro-narrator/internal/engine"
	"github.com/tonymach/neuro-narrator/internal/services"
	"github.com/tonymach/neuro-narrator/internal/storage"
	"github.com/tonymach/neuro-narrator/pkg/chat"
	"github.com/tonymach/neuro-narrator/pkg/world"
)

const (
	testNarrative = "Location: Dark Cavern. You step through the door into darkness."
	testAgentText = "Thoughts: The dark presses in around me.\nAction: I will find the lantern now"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// scriptedLLM answers the narrator prompt with narrative and everything
// else with agentText.
func scriptedLLM(narrative, agentText string) *services.MockLLMAPI {
	m := services.NewMockLLMAPI()
	m.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		if strings.Contains(messages[0].Content, "You are the Dungeon Master") {
			return &chat.ChatResponse{Message: narrative}, nil
		}
		return &chat.ChatResponse{Message: agentText}, nil
	}
	return m
}

func newTestEngine(llm services.LLMService, store storage.Storage) *engine.Engine {
	return engine.New(llm, store, world.NewState(), testLogger())
}

func TestGameActionHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		llm            services.LLMService
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "method not allowed",
			method:         http.MethodGet,
			body:           "",
			llm:            services.NewMockLLMAPI(),
			expectedStatus: http.StatusMethodNotAllowed,
			expectedError:  "Method not allowed. Only POST is supported.",
		},
		{
			name:           "invalid JSON",
			method:         http.MethodPost,
			body:           "{not json",
			llm:            services.NewMockLLMAPI(),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid JSON in request body",
		},
		{
			name:           "missing action",
			method:         http.MethodPost,
			body:           `{"action": ""}`,
			llm:            services.NewMockLLMAPI(),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Action is required",
		},
		{
			name:   "llm failure",
			method: http.MethodPost,
			body:   `{"action": "I open the door"}`,
			llm: func() services.LLMService {
				m := services.NewMockLLMAPI()
				m.SetChatError(errors.New("provider unavailable"))
				return m
			}(),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "An error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewGameActionHandler(newTestEngine(tt.llm, storage.NewMockStorage()), testLogger())

			req := httptest.NewRequest(tt.method, "/game-action", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var errResp ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
			assert.Equal(t, tt.expectedError, errResp.Error)
		})
	}
}

func TestGameActionHandler_StorageFailure(t *testing.T) {
	store := storage.NewMockStorage()
	store.SetSaveError(errors.New("redis unavailable"))

	handler := NewGameActionHandler(newTestEngine(scriptedLLM(testNarrative, testAgentText), store), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/game-action", strings.NewReader(`{"action": "I open the door"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
	assert.Equal(t, "An error occurred", errResp.Error)
}

func TestGameActionHandler_FullTurn(t *testing.T) {
	store := storage.NewMockStorage()
	e := newTestEngine(scriptedLLM(testNarrative, testAgentText), store)
	handler := NewGameActionHandler(e, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/game-action", strings.NewReader(`{"action": "I open the door"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp GameActionResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))

	require.Len(t, resp.Responses, 2)
	assert.Equal(t, chat.SpeakerDungeonMaster, resp.Responses[0].Speaker)
	assert.Equal(t, testNarrative, resp.Responses[0].Text)
	assert.Equal(t, chat.SpeakerAICharacter, resp.Responses[1].Speaker)
	assert.Equal(t, testAgentText, resp.Responses[1].Text)

	// The narrative rewrote the world.
	assert.Equal(t, "Dark Cavern", resp.WorldState.Location)
	require.NotEmpty(t, resp.WorldState.Events)
	assert.True(t, strings.HasPrefix(resp.WorldState.Events[0], "Location: Dark Cavern"))
	assert.InDelta(t, 0.6, resp.WorldState.NeuralActivity, 1e-9)

	// Cognitive state rides along with every turn.
	require.NotNil(t, resp.AIState)
	assert.NotEmpty(t, resp.AIState.Emotion)
	assert.Contains(t, []string{"sleep", "wake"}, resp.AIState.SleepState)

	// Both turns were remembered.
	assert.Len(t, store.Memories(), 2)
}

func TestGameActionHandler_SequentialTurnsAccumulateEvents(t *testing.T) {
	store := storage.NewMockStorage()
	e := newTestEngine(scriptedLLM(testNarrative, testAgentText), store)
	handler := NewGameActionHandler(e, testLogger())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/game-action", strings.NewReader(`{"action": "I press on"}`))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	snap := e.WorldSnapshot()
	assert.Len(t, snap.Events, 3)
	// +0.1 per turn from the 0.5 starting point, capped at 1.0 eventually.
	assert.InDelta(t, 0.8, snap.NeuralActivity, 1e-9)
}
