package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrScript increments the counter and attaches the window TTL in the
// same atomic step, so a crashed process never leaves an immortal key.
// A key that somehow exists without a TTL (PTTL -1) gets a fresh window
// instead of a reset moment stuck in the past.
// Returns the new count and the remaining window in milliseconds.
var incrScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
local ttl = redis.call('PTTL', KEYS[1])
if count == 1 or ttl < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// decrScript refunds one unit without letting the counter go negative.
var decrScript = redis.NewScript(`
local v = tonumber(redis.call('GET', KEYS[1]) or '0')
if v > 0 then
	return redis.call('DECR', KEYS[1])
end
return 0
`)

// RedisStore backs the limiter with Redis so counters survive restarts
// and are shared across replicas.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "ratelimit:"}
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	res, err := incrScript.Run(ctx, s.client, []string{s.prefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, time.Time{}, err
	}
	count, ttlMillis := res[0], res[1]
	resetAt := time.Now().Add(time.Duration(ttlMillis) * time.Millisecond)
	return count, resetAt, nil
}

func (s *RedisStore) Decr(ctx context.Context, key string) error {
	return decrScript.Run(ctx, s.client, []string{s.prefix + key}).Err()
}
