// Package storage persists the game's document collections: the single
// world-state snapshot, short-term memories, the long-term memory archive,
// and goals.
package storage

import (
	"context"
	"time"

	"github.com/tonymach/neuro-narrator/pkg/mind"
	"github.com/tonymach/neuro-narrator/pkg/world"
)

// HealthChecker defines basic health check capabilities
type HealthChecker interface {
	// Ping tests the service connection
	Ping(ctx context.Context) error
}

// Closer defines cleanup capabilities
type Closer interface {
	// Close closes the service connection
	Close() error
}

// Storage defines the interface for game persistence.
type Storage interface {
	HealthChecker
	Closer

	// SaveWorldState upserts the single world-state document.
	SaveWorldState(ctx context.Context, snap world.Snapshot) error

	// LoadWorldState retrieves the world-state document.
	// Returns nil if none has been saved yet.
	LoadWorldState(ctx context.Context) (*world.Snapshot, error)

	// SaveMemory inserts a short-term memory.
	SaveMemory(ctx context.Context, m *mind.Memory) error

	// RelevantMemories returns memories with importance strictly above
	// minImportance, newest first, capped at limit.
	RelevantMemories(ctx context.Context, minImportance float64, limit int) ([]mind.Memory, error)

	// MemoriesOlderThan returns all memories created before cutoff.
	MemoriesOlderThan(ctx context.Context, cutoff time.Time) ([]mind.Memory, error)

	// DeleteMemory removes a short-term memory by ID.
	DeleteMemory(ctx context.Context, id string) error

	// SaveLongTermMemory appends to the long-term archive.
	SaveLongTermMemory(ctx context.Context, m *mind.LongTermMemory) error

	// ListLongTermMemories returns the archive in append order.
	ListLongTermMemories(ctx context.Context) ([]mind.LongTermMemory, error)

	// SaveGoal upserts a goal document.
	SaveGoal(ctx context.Context, g *mind.Goal) error

	// ListGoals returns all goals in creation order.
	ListGoals(ctx context.Context) ([]mind.Goal, error)
}
