// Package store mirrors the live dashboard state into redis so additional
// operator consoles can read the latest snapshot without polling the
// vehicle themselves. Keys carry short TTLs: this is an ephemeral cache of
// the current session, not telemetry persistence.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rescue-gcs/internal/observability"
)

var ctx = context.Background()
var rdb *redis.Client

// snapshotTTL keeps mirrored state from outliving a dead session.
const snapshotTTL = 10 * time.Minute

// InitRedis connects the mirror. Callers skip it entirely when no address
// is configured; every function here is nil-safe for that case.
func InitRedis(addr string, db int) error {
	rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb = nil
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Enabled reports whether the mirror is live.
func Enabled() bool { return rdb != nil }

// MirrorSnapshot writes the latest telemetry snapshot under the session key.
func MirrorSnapshot(sessionID string, snapshot any) {
	if rdb == nil {
		return
	}
	b, err := json.Marshal(snapshot)
	if err != nil {
		observability.RedisMirrorErrors.Inc()
		return
	}
	if err := rdb.Set(ctx, "gcs:"+sessionID+":telemetry", b, snapshotTTL).Err(); err != nil {
		observability.RedisMirrorErrors.Inc()
	}
}

// IncDailyCmdCounter bumps today's relay counter for a command and reports
// whether it is still under the daily limit. Without redis the limit is not
// enforced and every command is allowed.
func IncDailyCmdCounter(cmd string, limit int) (allowed bool, count int64, err error) {
	if rdb == nil {
		return true, 0, nil
	}
	key := "gcs:cmd:" + cmd + ":" + time.Now().Format("20060102")
	count, err = rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	// First increment of the day sets the expiry.
	if count == 1 {
		_ = rdb.Expire(ctx, key, 24*time.Hour).Err()
	}
	if limit > 0 && count > int64(limit) {
		return false, count, nil
	}
	return true, count, nil
}
