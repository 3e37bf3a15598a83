// Package mind models the cognitive side of the AI character: brain wave
// signals, the sleep/wake cycle, emotions, short- and long-term memories,
// and goals.
package mind

import (
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Fixed importance assigned to the two memories written per turn.
const (
	NarrativeImportance = 0.6
	AgentImportance     = 0.4
)

// ConsolidationThreshold is the minimum importance for a memory to
// survive consolidation into long-term storage.
const ConsolidationThreshold = 0.7

// GoalProgressStep is added to a goal's progress when the agent's action
// text contains the goal's description. Progress is not capped.
const GoalProgressStep = 20

// Memory is a short-term memory entry. IDs are ULIDs so that a
// lexicographic scan of IDs is also a scan by creation time.
type Memory struct {
	ID         string    `json:"id"`
	Info       string    `json:"info"`
	Importance float64   `json:"importance"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewMemory creates a memory stamped with the given time.
func NewMemory(info string, importance float64, now time.Time) *Memory {
	return &Memory{
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Info:       info,
		Importance: importance,
		Timestamp:  now,
	}
}

// LongTermMemory is an append-only archive entry created by
// consolidation. Never mutated or deleted.
type LongTermMemory struct {
	Info                   string    `json:"info"`
	OriginalTimestamp      time.Time `json:"originalTimestamp"`
	ConsolidationTimestamp time.Time `json:"consolidationTimestamp"`
}

// Goal is a tracked textual objective. Goals accumulate without bound;
// there is no removal path.
type Goal struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Progress    int       `json:"progress"`
}

// NewGoal creates a goal with zero progress.
func NewGoal(description string) *Goal {
	return &Goal{
		ID:          uuid.New(),
		Description: description,
	}
}
