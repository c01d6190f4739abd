package sweep

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// PassLease serializes reconciliation passes across processes. Correctness
// does not depend on it (released state is idempotent); it only avoids
// redundant work when scheduled invocations overlap.
type PassLease interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// RedisPassLease implements PassLease with a SETNX lease that expires on
// its own if the holder dies mid-pass.
type RedisPassLease struct {
	Client *redis.Client
	Key    string
	TTL    time.Duration
}

// NewRedisPassLease constructs a lease keyed for the sweep job. The TTL
// should comfortably exceed the pass timeout.
func NewRedisPassLease(client *redis.Client, ttl time.Duration) *RedisPassLease {
	return &RedisPassLease{
		Client: client,
		Key:    "chargehub:sweep:lease",
		TTL:    ttl,
	}
}

func (l *RedisPassLease) Acquire(ctx context.Context) (bool, error) {
	return l.Client.SetNX(ctx, l.Key, time.Now().UTC().Format(time.RFC3339), l.TTL).Result()
}

func (l *RedisPassLease) Release(ctx context.Context) error {
	return l.Client.Del(ctx, l.Key).Err()
}
