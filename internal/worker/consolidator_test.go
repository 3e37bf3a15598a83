package worker

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonymach/neuro-narrator/internal/storage"
	"github.com/tonymach/neuro-narrator/pkg/mind"
	"github.com/tonymach/neuro-narrator/pkg/world"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// 3 AM is well inside the sleep window.
var sleepTime = time.Date(2024, 6, 2, 3, 0, 0, 0, time.UTC)

func TestRunOnceConsolidates(t *testing.T) {
	store := storage.NewMockStorage()
	ctx := context.Background()

	important := mind.NewMemory("the lantern's hiding place", 0.8, sleepTime.Add(-25*time.Hour))
	trivial := mind.NewMemory("a passing breeze", 0.3, sleepTime.Add(-26*time.Hour))
	fresh := mind.NewMemory("the door just opened", 0.9, sleepTime.Add(-time.Hour))
	require.NoError(t, store.SaveMemory(ctx, important))
	require.NoError(t, store.SaveMemory(ctx, trivial))
	require.NoError(t, store.SaveMemory(ctx, fresh))

	w := world.NewState()
	c := New(store, w, time.Hour, testLogger())
	c.now = func() time.Time { return sleepTime }

	require.NoError(t, c.RunOnce(ctx))

	// The important aged memory moved to the archive.
	archive, err := store.ListLongTermMemories(ctx)
	require.NoError(t, err)
	require.Len(t, archive, 1)
	assert.Equal(t, "the lantern's hiding place", archive[0].Info)
	assert.Equal(t, important.Timestamp, archive[0].OriginalTimestamp)
	assert.Equal(t, sleepTime, archive[0].ConsolidationTimestamp)

	// Both aged memories are gone from short-term storage; the fresh one
	// survives.
	remaining := store.Memories()
	require.Len(t, remaining, 1)
	assert.Equal(t, fresh.ID, remaining[0].ID)

	// Neural activity decayed and the world was persisted.
	assert.InDelta(t, 0.3, w.Snapshot().NeuralActivity, 1e-9)
	saved, err := store.LoadWorldState(ctx)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.InDelta(t, 0.3, saved.NeuralActivity, 1e-9)
}

func TestRunOnceSkipsWhenAwake(t *testing.T) {
	store := storage.NewMockStorage()
	ctx := context.Background()

	aged := mind.NewMemory("should not move yet", 0.9, sleepTime.Add(-30*time.Hour))
	require.NoError(t, store.SaveMemory(ctx, aged))

	w := world.NewState()
	c := New(store, w, time.Hour, testLogger())
	c.now = func() time.Time { return time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, c.RunOnce(ctx))

	archive, err := store.ListLongTermMemories(ctx)
	require.NoError(t, err)
	assert.Empty(t, archive)
	assert.Len(t, store.Memories(), 1)
	assert.Equal(t, 0.5, w.Snapshot().NeuralActivity)
}

func TestRunOnceDecaysClampedAtZero(t *testing.T) {
	store := storage.NewMockStorage()
	w := world.NewState()

	c := New(store, w, time.Hour, testLogger())
	c.now = func() time.Time { return sleepTime }

	for i := 0; i < 5; i++ {
		require.NoError(t, c.RunOnce(context.Background()))
	}
	assert.Equal(t, 0.0, w.Snapshot().NeuralActivity)
}

func TestStartStop(t *testing.T) {
	store := storage.NewMockStorage()
	c := New(store, world.NewState(), 5*time.Millisecond, testLogger())
	c.now = func() time.Time { return sleepTime }

	c.Start()
	time.Sleep(20 * time.Millisecond)
	c.Stop()

	// Stop must terminate the loop; a second Stop would deadlock, and a
	// run after Stop would be a bug, so just verify the world survived.
	assert.GreaterOrEqual(t, c.world.Snapshot().NeuralActivity, 0.0)
}
