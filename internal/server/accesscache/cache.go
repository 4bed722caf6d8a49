// Package accesscache keeps short-lived access snapshots in Redis so the
// subscription check does not hit Postgres on every download.
package accesscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "gophmedia:access:"

// Snapshot records what the database said about (user, offer) at CachedAt.
// PayedUntil is nil when no subscription was found.
type Snapshot struct {
	PayedUntil *time.Time `cbor:"1,keyasint,omitempty"`
	CachedAt   time.Time  `cbor:"2,keyasint"`
}

// Allows evaluates the snapshot against now, so a cached subscription that
// lapsed while in the cache is denied.
func (s *Snapshot) Allows(now time.Time) bool {
	return s.PayedUntil != nil && !s.PayedUntil.Before(now)
}

// Fresh reports whether the snapshot is at most maxAge old. A non-positive
// maxAge accepts any age.
func (s *Snapshot) Fresh(now time.Time, maxAge time.Duration) bool {
	return maxAge <= 0 || now.Sub(s.CachedAt) <= maxAge
}

type Cache interface {
	// Get returns (nil, nil) on a miss.
	Get(ctx context.Context, userID, offerID string) (*Snapshot, error)
	Put(ctx context.Context, userID, offerID string, s *Snapshot) error
	Invalidate(ctx context.Context, userID, offerID string) error
}

// redisClient is the subset of *redis.Client used here.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("accesscache: cbor encoder: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("accesscache: cbor decoder: " + err.Error())
	}
}

type RedisCache struct {
	rdb redisClient
	ttl time.Duration
}

func NewRedisCache(rdb redisClient, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// NewClient opens a go-redis client for addr.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

func key(userID, offerID string) string {
	return keyPrefix + userID + ":" + offerID
}

func (c *RedisCache) Get(ctx context.Context, userID, offerID string) (*Snapshot, error) {
	b, err := c.rdb.Get(ctx, key(userID, offerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var s Snapshot
	if err := decMode.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}

func (c *RedisCache) Put(ctx context.Context, userID, offerID string, s *Snapshot) error {
	b, err := encMode.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := c.rdb.Set(ctx, key(userID, offerID), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, userID, offerID string) error {
	if err := c.rdb.Del(ctx, key(userID, offerID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Nop is used when no Redis address is configured; every lookup misses.
type Nop struct{}

func (Nop) Get(context.Context, string, string) (*Snapshot, error) { return nil, nil }
func (Nop) Put(context.Context, string, string, *Snapshot) error   { return nil }
func (Nop) Invalidate(context.Context, string, string) error       { return nil }
