package history

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"gridline-schedule-engine/internal/config"
	engerrors "gridline-schedule-engine/internal/errors"
	"gridline-schedule-engine/pkg/types"
)

// RedisStore keeps outcome counters in Redis hashes. HINCRBY makes the
// increments atomic across concurrent runs, so there is nothing to lock.
type RedisStore struct {
	client *redis.Client
	prefix string
	prior  float64
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg config.RedisConfig, prior float64) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "gridline:history"
	}

	return &RedisStore{client: rdb, prefix: prefix, prior: prior}, nil
}

func (s *RedisStore) key(strategy string, conflictType types.ConflictType) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, strategy, conflictType)
}

// RecordResolution increments the pair's counters atomically.
func (s *RedisStore) RecordResolution(ctx context.Context, record types.ResolutionHistoryRecord) error {
	key := s.key(record.Strategy, record.ConflictType)

	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, key, "attempts", 1)
	if record.Success {
		pipe.HIncrBy(ctx, key, "successes", 1)
	}
	pipe.HSet(ctx, key, "updated_at", record.RecordedAt.UTC().Format(time.RFC3339))

	if _, err := pipe.Exec(ctx); err != nil {
		return engerrors.NewStorageError("record_resolution", err)
	}
	return nil
}

// GetSuccessRate reads the pair's counters.
func (s *RedisStore) GetSuccessRate(ctx context.Context, strategy string, conflictType types.ConflictType) (float64, error) {
	vals, err := s.client.HMGet(ctx, s.key(strategy, conflictType), "attempts", "successes").Result()
	if err != nil {
		return 0, engerrors.NewStorageError("get_success_rate", err)
	}

	attempts := parseCounter(vals[0])
	successes := parseCounter(vals[1])
	return rate(successes, attempts, s.prior), nil
}

func parseCounter(v any) int64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
