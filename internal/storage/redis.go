package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tonymach/neuro-narrator/pkg/mind"
	"github.com/tonymach/neuro-narrator/pkg/world"
)

// Key layout. world:state is a single unkeyed document by convention;
// memories are documents indexed by a time-scored sorted set; the
// long-term archive is an append-only list; goals are documents indexed
// by a creation-time sorted set.
const (
	worldStateKey     = "world:state"
	memoryIndexKey    = "memories"
	memoryKeyPrefix   = "memory:"
	longTermMemoryKey = "long_term_memory"
	goalIndexKey      = "goals"
	goalKeyPrefix     = "goal:"
)

// RedisStorage implements the Storage interface using Redis
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance
func NewRedisStorage(redisURL string, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	return &RedisStorage{
		client: rdb,
		logger: logger,
	}
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// World state (single document, replace semantics)

func (r *RedisStorage) SaveWorldState(ctx context.Context, snap world.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal world state: %w", err)
	}

	if err := r.client.Set(ctx, worldStateKey, string(data), 0).Err(); err != nil {
		r.logger.Error("Failed to save world state", "error", err)
		return fmt.Errorf("failed to save world state: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadWorldState(ctx context.Context) (*world.Snapshot, error) {
	data, err := r.client.Get(ctx, worldStateKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load world state: %w", err)
	}

	var snap world.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal world state: %w", err)
	}
	return &snap, nil
}

// Memories (documents plus a time-scored index)

func (r *RedisStorage) SaveMemory(ctx context.Context, m *mind.Memory) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal memory: %w", err)
	}

	if err := r.client.Set(ctx, memoryKeyPrefix+m.ID, string(data), 0).Err(); err != nil {
		return fmt.Errorf("failed to save memory: %w", err)
	}

	score := float64(m.Timestamp.UnixMilli())
	if err := r.client.ZAdd(ctx, memoryIndexKey, redis.Z{Score: score, Member: m.ID}).Err(); err != nil {
		return fmt.Errorf("failed to index memory: %w", err)
	}
	return nil
}

func (r *RedisStorage) RelevantMemories(ctx context.Context, minImportance float64, limit int) ([]mind.Memory, error) {
	ids, err := r.client.ZRevRange(ctx, memoryIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to scan memory index: %w", err)
	}

	memories, err := r.fetchMemories(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]mind.Memory, 0, limit)
	for _, m := range memories {
		if m.Importance > minImportance {
			out = append(out, m)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *RedisStorage) MemoriesOlderThan(ctx context.Context, cutoff time.Time) ([]mind.Memory, error) {
	max := strconv.FormatInt(cutoff.UnixMilli(), 10)
	ids, err := r.client.ZRangeByScore(ctx, memoryIndexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + max,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to scan memory index: %w", err)
	}

	return r.fetchMemories(ctx, ids)
}

func (r *RedisStorage) DeleteMemory(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, memoryKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete memory: %w", err)
	}
	if err := r.client.ZRem(ctx, memoryIndexKey, id).Err(); err != nil {
		return fmt.Errorf("failed to unindex memory: %w", err)
	}
	return nil
}

func (r *RedisStorage) fetchMemories(ctx context.Context, ids []string) ([]mind.Memory, error) {
	if len(ids) == 0 {
		return []mind.Memory{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = memoryKeyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch memories: %w", err)
	}

	memories := make([]mind.Memory, 0, len(values))
	for i, v := range values {
		data, ok := v.(string)
		if !ok {
			// Index entry with no document; skip rather than fail.
			r.logger.Warn("Memory index entry without document", "id", ids[i])
			continue
		}

		var m mind.Memory
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal memory %s: %w", ids[i], err)
		}
		memories = append(memories, m)
	}
	return memories, nil
}

// Long-term memory (append-only archive)

func (r *RedisStorage) SaveLongTermMemory(ctx context.Context, m *mind.LongTermMemory) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal long-term memory: %w", err)
	}

	if err := r.client.RPush(ctx, longTermMemoryKey, string(data)).Err(); err != nil {
		return fmt.Errorf("failed to append long-term memory: %w", err)
	}
	return nil
}

func (r *RedisStorage) ListLongTermMemories(ctx context.Context) ([]mind.LongTermMemory, error) {
	values, err := r.client.LRange(ctx, longTermMemoryKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read long-term memory: %w", err)
	}

	out := make([]mind.LongTermMemory, 0, len(values))
	for _, v := range values {
		var m mind.LongTermMemory
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal long-term memory: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

// Goals (documents plus a creation-ordered index)

func (r *RedisStorage) SaveGoal(ctx context.Context, g *mind.Goal) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal goal: %w", err)
	}

	if err := r.client.Set(ctx, goalKeyPrefix+g.ID.String(), string(data), 0).Err(); err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}

	// NX keeps the original creation score on progress updates.
	score := float64(time.Now().UnixNano())
	if err := r.client.ZAddNX(ctx, goalIndexKey, redis.Z{Score: score, Member: g.ID.String()}).Err(); err != nil {
		return fmt.Errorf("failed to index goal: %w", err)
	}
	return nil
}

func (r *RedisStorage) ListGoals(ctx context.Context) ([]mind.Goal, error) {
	ids, err := r.client.ZRange(ctx, goalIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to scan goal index: %w", err)
	}
	if len(ids) == 0 {
		return []mind.Goal{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = goalKeyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch goals: %w", err)
	}

	goals := make([]mind.Goal, 0, len(values))
	for i, v := range values {
		data, ok := v.(string)
		if !ok {
			r.logger.Warn("Goal index entry without document", "id", ids[i])
			continue
		}

		var g mind.Goal
		if err := json.Unmarshal([]byte(data), &g); err != nil {
			return nil, fmt.Errorf("failed to unmarshal goal %s: %w", ids[i], err)
		}
		goals = append(goals, g)
	}
	return goals, nil
}
