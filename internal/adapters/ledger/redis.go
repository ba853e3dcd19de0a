package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okian/recruitportal/internal/domain/model"
	"github.com/okian/recruitportal/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the ledger in a redis list so several terminals share it.
// Entries live under key, the last write time under key+":updated_at".
type RedisStore struct {
	rdb *redis.Client
	key string
	cfg settings
}

// NewRedisStore creates a store on an existing client.
func NewRedisStore(rdb *redis.Client, key string, opts ...Option) *RedisStore {
	return &RedisStore{rdb: rdb, key: key, cfg: newSettings(opts)}
}

func (r *RedisStore) updatedKey() string { return r.key + ":updated_at" }

// Append implements Store.
func (r *RedisStore) Append(ctx context.Context, e model.LedgerEntry) error {
	if err := validate(e); err != nil {
		return err
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	n, err := r.rdb.RPush(ctx, r.key, string(payload)).Result()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	stamp := r.cfg.now().UTC().Format(time.RFC3339Nano)
	if err := r.rdb.Set(ctx, r.updatedKey(), stamp, 0).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	metrics.UpdateLedgerEntries(int(n))
	return nil
}

// Snapshot implements Store.
func (r *RedisStore) Snapshot(ctx context.Context) (Snapshot, error) {
	items, err := r.rdb.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	snap := Snapshot{Entries: make([]model.LedgerEntry, 0, len(items))}
	for _, item := range items {
		var e model.LedgerEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return Snapshot{}, fmt.Errorf("%w: %s: %w", ErrCorrupt, r.key, err)
		}
		snap.Entries = append(snap.Entries, e)
	}

	stamp, err := r.rdb.Get(ctx, r.updatedKey()).Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return Snapshot{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		if t, perr := time.Parse(time.RFC3339Nano, stamp); perr == nil {
			snap.UpdatedAt = t
		}
	}
	return snap, nil
}

// Ping checks connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}
