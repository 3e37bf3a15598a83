package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tonymach/neuro-narrator/pkg/mind"
	"github.com/tonymach/neuro-narrator/pkg/world"
)

// MockStorage is an in-memory implementation of Storage for testing.
// Memories and goals are kept in insertion order.
type MockStorage struct {
	mu         sync.Mutex
	worldState *world.Snapshot
	memories   []mind.Memory
	longTerm   []mind.LongTermMemory
	goals      []mind.Goal

	pingError error
	saveError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures every save operation to fail with the given error
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveWorldState(ctx context.Context, snap world.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.worldState = &snap
	return nil
}

func (m *MockStorage) LoadWorldState(ctx context.Context) (*world.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.worldState == nil {
		return nil, nil
	}
	snap := *m.worldState
	return &snap, nil
}

func (m *MockStorage) SaveMemory(ctx context.Context, mem *mind.Memory) error {
	if mem == nil {
		return errors.New("memory cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.memories = append(m.memories, *mem)
	return nil
}

func (m *MockStorage) RelevantMemories(ctx context.Context, minImportance float64, limit int) ([]mind.Memory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Newest first: walk insertion order backwards.
	out := make([]mind.Memory, 0, limit)
	for i := len(m.memories) - 1; i >= 0; i-- {
		if m.memories[i].Importance > minImportance {
			out = append(out, m.memories[i])
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MockStorage) MemoriesOlderThan(ctx context.Context, cutoff time.Time) ([]mind.Memory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]mind.Memory, 0)
	for _, mem := range m.memories {
		if mem.Timestamp.Before(cutoff) {
			out = append(out, mem)
		}
	}
	return out, nil
}

func (m *MockStorage) DeleteMemory(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, mem := range m.memories {
		if mem.ID == id {
			m.memories = append(m.memories[:i], m.memories[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockStorage) SaveLongTermMemory(ctx context.Context, mem *mind.LongTermMemory) error {
	if mem == nil {
		return errors.New("long-term memory cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.longTerm = append(m.longTerm, *mem)
	return nil
}

func (m *MockStorage) ListLongTermMemories(ctx context.Context) ([]mind.LongTermMemory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mind.LongTermMemory(nil), m.longTerm...), nil
}

func (m *MockStorage) SaveGoal(ctx context.Context, g *mind.Goal) error {
	if g == nil {
		return errors.New("goal cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}

	for i, existing := range m.goals {
		if existing.ID == g.ID {
			m.goals[i] = *g
			return nil
		}
	}
	m.goals = append(m.goals, *g)
	return nil
}

func (m *MockStorage) ListGoals(ctx context.Context) ([]mind.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mind.Goal(nil), m.goals...), nil
}

// Memories returns all stored short-term memories in insertion order.
// Test helper, not part of the Storage interface.
func (m *MockStorage) Memories() []mind.Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mind.Memory(nil), m.memories...)
}
