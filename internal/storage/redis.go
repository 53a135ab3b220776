package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	caseKeyPrefix = "echo:case:"
	caseIndexKey  = "echo:cases"
)

// RedisLedger implements Ledger on Redis: one JSON value per case plus a
// list of case IDs, newest first.
type RedisLedger struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisLedger implements Ledger interface
var _ Ledger = (*RedisLedger)(nil)

// NewRedisLedger creates a ledger for redisURL, e.g.
// "redis://localhost:6379/0". It does not dial; call WaitForConnection
// before first use.
func NewRedisLedger(redisURL string, logger *slog.Logger) (*RedisLedger, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	logger.Debug("Redis case ledger configured", "addr", opt.Addr)
	return &RedisLedger{client: redis.NewClient(opt), logger: logger}, nil
}

func (r *RedisLedger) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisLedger) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection retries Ping until Redis answers or attempts run out.
func (r *RedisLedger) WaitForConnection(ctx context.Context, attempts int, delay time.Duration) error {
	for i := 0; i < attempts; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(delay):
				continue
			}
		}
		r.logger.Info("Connected to Redis for case ledger")
		return nil
	}
	return fmt.Errorf("redis did not become available after %d attempts", attempts)
}

func (r *RedisLedger) Record(ctx context.Context, rec CaseRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal case record: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, caseKeyPrefix+rec.ID.String(), data, 0)
	pipe.LPush(ctx, caseIndexKey, rec.ID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to record case", "case_id", rec.ID, "error", err)
		return fmt.Errorf("failed to record case: %w", err)
	}

	r.logger.Debug("Case recorded", "case_id", rec.ID, "ending", rec.Ending)
	return nil
}

func (r *RedisLedger) Recent(ctx context.Context, n int) ([]CaseRecord, error) {
	if n <= 0 {
		return nil, nil
	}
	ids, err := r.client.LRange(ctx, caseIndexKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = caseKeyPrefix + id
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load cases: %w", err)
	}

	records := make([]CaseRecord, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			r.logger.Warn("Case listed without a record", "case_id", ids[i])
			continue
		}
		var rec CaseRecord
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			r.logger.Warn("Skipping unreadable case record", "case_id", ids[i], "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *RedisLedger) Count(ctx context.Context) (int64, error) {
	n, err := r.client.LLen(ctx, caseIndexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count cases: %w", err)
	}
	return n, nil
}
