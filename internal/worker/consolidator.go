// Package worker runs the recurring memory-consolidation job that, during
// the sleep phase, migrates aged important memories into long-term storage
// and decays neural activity.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tonymach/neuro-narrator/internal/storage"
	"github.com/tonymach/neuro-narrator/pkg/mind"
	"github.com/tonymach/neuro-narrator/pkg/world"
)

// MemoryMaxAge is how old a memory must be before consolidation touches it.
const MemoryMaxAge = 24 * time.Hour

// Consolidator periodically consolidates short-term memories. It runs on
// its own timer, decoupled from request handling.
type Consolidator struct {
	store    storage.Storage
	world    *world.State
	logger   *slog.Logger
	interval time.Duration

	now    func() time.Time
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a consolidator that fires every interval.
func New(store storage.Storage, w *world.State, interval time.Duration, logger *slog.Logger) *Consolidator {
	ctx, cancel := context.WithCancel(context.Background())

	return &Consolidator{
		store:    store,
		world:    w,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start begins the consolidation timer. It returns immediately; the job
// runs until Stop is called.
func (c *Consolidator) Start() {
	c.logger.Info("Consolidation worker starting", "interval", c.interval)

	go func() {
		defer close(c.done)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-c.ctx.Done():
				c.logger.Info("Consolidation worker shutting down")
				return
			case <-ticker.C:
				if err := c.RunOnce(c.ctx); err != nil {
					c.logger.Error("Memory consolidation failed", "error", err)
				}
			}
		}
	}()
}

// Stop shuts the worker down and waits for the loop to exit.
func (c *Consolidator) Stop() {
	c.cancel()
	<-c.done
}

// RunOnce performs a single consolidation pass. Outside the sleep phase
// it is a no-op. Memories older than MemoryMaxAge are archived when
// important enough and removed from short-term storage either way; the
// copy and the delete are not atomic.
func (c *Consolidator) RunOnce(ctx context.Context) error {
	now := c.now()
	if mind.SleepState(now) != mind.StateSleep {
		c.logger.Debug("Skipping consolidation outside sleep phase")
		return nil
	}

	c.logger.Info("Performing memory consolidation")

	cutoff := now.Add(-MemoryMaxAge)
	aged, err := c.store.MemoriesOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to select aged memories: %w", err)
	}

	consolidated := 0
	for _, m := range aged {
		if m.Importance > mind.ConsolidationThreshold {
			ltm := &mind.LongTermMemory{
				Info:                   m.Info,
				OriginalTimestamp:      m.Timestamp,
				ConsolidationTimestamp: now,
			}
			if err := c.store.SaveLongTermMemory(ctx, ltm); err != nil {
				return fmt.Errorf("failed to archive memory %s: %w", m.ID, err)
			}
			consolidated++
		}

		if err := c.store.DeleteMemory(ctx, m.ID); err != nil {
			return fmt.Errorf("failed to delete memory %s: %w", m.ID, err)
		}
	}

	c.world.DecayActivity()
	if err := c.store.SaveWorldState(ctx, c.world.Snapshot()); err != nil {
		return fmt.Errorf("failed to persist world state: %w", err)
	}

	c.logger.Info("Memory consolidation complete",
		"aged", len(aged),
		"consolidated", consolidated,
		"neural_activity", c.world.Snapshot().NeuralActivity)
	return nil
}
