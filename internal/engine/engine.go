// Package engine runs the game loop: one Dungeon Master turn and one
// cognitive agent turn per player action, with world, memory and goal
// updates between them.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/tonymach/neuro-narrator/internal/services"
	"github.com/tonymach/neuro-narrator/internal/storage"
	"github.com/tonymach/neuro-narrator/pkg/chat"
	"github.com/tonymach/neuro-narrator/pkg/mind"
	"github.com/tonymach/neuro-narrator/pkg/prompts"
	"github.com/tonymach/neuro-narrator/pkg/world"
)

const (
	// MemoryRecallLimit caps how many memories the agent recalls per turn.
	MemoryRecallLimit = 5

	// llmCallTimeout bounds each LLM round trip. A failed call gets one
	// retry before the turn is aborted.
	llmCallTimeout = 60 * time.Second
	llmAttempts    = 2
)

// AIState is the cognitive snapshot returned alongside the world state.
type AIState struct {
	Goals      []mind.Goal   `json:"goals"`
	Memories   []mind.Memory `json:"memories"`
	Emotion    string        `json:"emotion"`
	SleepState string        `json:"sleepState"`
	BrainWaves mind.Waves    `json:"brainWaves"`
}

// Engine owns the shared world state and sequences game turns. Turns are
// serialized by a mutex; the world is never mutated outside a turn except
// by the consolidation worker's activity decay.
type Engine struct {
	llm    services.LLMService
	store  storage.Storage
	world  *world.State
	logger *slog.Logger

	turnMu sync.Mutex

	rngMu sync.Mutex
	rng   *rand.Rand

	now func() time.Time
}

// New creates an engine around the given world state.
func New(llm services.LLMService, store storage.Storage, w *world.State, logger *slog.Logger) *Engine {
	return &Engine{
		llm:    llm,
		store:  store,
		world:  w,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
}

// Turn runs one full game loop for a player action: narrate, update the
// world, remember the narration, let the agent respond, update goals,
// remember the agent's reply. A failure aborts the remaining steps;
// earlier mutations are kept.
func (e *Engine) Turn(ctx context.Context, action string) ([]chat.SpeakerResponse, error) {
	e.turnMu.Lock()
	defer e.turnMu.Unlock()

	narrative, err := e.generate(ctx, prompts.BuildDungeonMasterPrompt(action, e.world.Snapshot()))
	if err != nil {
		return nil, fmt.Errorf("dungeon master turn failed: %w", err)
	}

	e.world.ApplyNarrative(narrative)
	if err := e.store.SaveWorldState(ctx, e.world.Snapshot()); err != nil {
		return nil, fmt.Errorf("failed to persist world state: %w", err)
	}

	now := e.now()
	if err := e.store.SaveMemory(ctx, mind.NewMemory(narrative, mind.NarrativeImportance, now)); err != nil {
		return nil, fmt.Errorf("failed to store narrative memory: %w", err)
	}

	agentText, err := e.agentTurn(ctx, narrative)
	if err != nil {
		return nil, fmt.Errorf("cognitive agent turn failed: %w", err)
	}

	if err := e.updateGoals(ctx, agentText); err != nil {
		return nil, fmt.Errorf("failed to update goals: %w", err)
	}

	if err := e.store.SaveMemory(ctx, mind.NewMemory(agentText, mind.AgentImportance, e.now())); err != nil {
		return nil, fmt.Errorf("failed to store agent memory: %w", err)
	}

	return []chat.SpeakerResponse{
		{Speaker: chat.SpeakerDungeonMaster, Text: narrative},
		{Speaker: chat.SpeakerAICharacter, Text: agentText},
	}, nil
}

// agentTurn assembles the agent's cognitive context and asks the LLM for
// its reply to the narrator.
func (e *Engine) agentTurn(ctx context.Context, narrative string) (string, error) {
	goals, err := e.store.ListGoals(ctx)
	if err != nil {
		return "", err
	}

	memories, err := e.recallMemories(ctx)
	if err != nil {
		return "", err
	}

	now := e.now()
	t := clockSeconds(now)
	prompt := prompts.BuildCognitiveAgentPrompt(
		narrative,
		goals,
		memories,
		e.sampleEmotion(),
		mind.SleepState(now),
		e.world.Snapshot().NeuralActivity,
		mind.SampleWaves(t),
	)

	return e.generate(ctx, prompt)
}

// updateGoals applies the agent's stated action to the goal set. A reply
// without an Action line is a no-op.
func (e *Engine) updateGoals(ctx context.Context, agentText string) error {
	action, ok := mind.ParseAction(agentText)
	if !ok {
		return nil
	}

	goals, err := e.store.ListGoals(ctx)
	if err != nil {
		return err
	}

	for i := range goals {
		if mind.ActionAdvancesGoal(action, goals[i]) {
			goals[i].Progress += mind.GoalProgressStep
			if err := e.store.SaveGoal(ctx, &goals[i]); err != nil {
				return err
			}
		}
	}

	if e.chance(mind.NewGoalChance) {
		if err := e.store.SaveGoal(ctx, mind.NewGoal(mind.GoalFromAction(action))); err != nil {
			return err
		}
	}
	return nil
}

// recallMemories returns the memories above the current alpha-wave
// attention level, newest first.
func (e *Engine) recallMemories(ctx context.Context) ([]mind.Memory, error) {
	attention := mind.Alpha(clockSeconds(e.now()))
	return e.store.RelevantMemories(ctx, attention, MemoryRecallLimit)
}

// AIState builds the cognitive snapshot for API responses. The emotion is
// freshly sampled on every call.
func (e *Engine) AIState(ctx context.Context) (*AIState, error) {
	goals, err := e.store.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	memories, err := e.recallMemories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to recall memories: %w", err)
	}

	now := e.now()
	return &AIState{
		Goals:      goals,
		Memories:   memories,
		Emotion:    e.sampleEmotion(),
		SleepState: mind.SleepState(now),
		BrainWaves: mind.SampleWaves(clockSeconds(now)),
	}, nil
}

// WorldSnapshot exposes the current world state for API responses.
func (e *Engine) WorldSnapshot() world.Snapshot {
	return e.world.Snapshot()
}

// generate makes one LLM round trip with a bounded timeout and a single
// retry on failure.
func (e *Engine) generate(ctx context.Context, prompt string) (string, error) {
	messages := []chat.ChatMessage{{Role: chat.ChatRoleUser, Content: prompt}}

	var lastErr error
	for attempt := 1; attempt <= llmAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, llmCallTimeout)
		resp, err := e.llm.Chat(callCtx, messages)
		cancel()
		if err == nil {
			return resp.Message, nil
		}

		lastErr = err
		e.logger.Warn("LLM call failed", "attempt", attempt, "error", err)

		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

func (e *Engine) sampleEmotion() string {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return mind.SampleEmotion(e.rng)
}

func (e *Engine) chance(p float64) bool {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Float64() < p
}

// clockSeconds is the time value fed to the wave functions.
func clockSeconds(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000
}
