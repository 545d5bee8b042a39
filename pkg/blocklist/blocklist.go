// Package blocklist remembers revoked token identifiers until they expire.
package blocklist

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Blocklist stores revoked token ids for a bounded time.
type Blocklist interface {
	Revoke(ctx context.Context, id string, ttl time.Duration) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// New returns a Redis backed blocklist when addr is reachable and falls back
// to an in-process one otherwise.
func New(ctx context.Context, addr, password string, db int) Blocklist {
	if addr == "" {
		log.Println("REDIS_ADDR not set, token blocklist kept in memory")
		return NewMemory()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable at %s, token blocklist kept in memory: %v", addr, err)
		_ = client.Close()
		return NewMemory()
	}
	log.Printf("Token blocklist connected to Redis at %s", addr)
	return NewRedis(client)
}

// Redis is a Blocklist backed by Redis keys with expiry.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, prefix: "foodgram:revoked:"}
}

// Revoke marks id as revoked for ttl.
func (r *Redis) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.prefix+id, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token %s: %w", id, err)
	}
	return nil
}

// IsRevoked reports whether id was revoked and has not yet expired.
func (r *Redis) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token %s: %w", id, err)
	}
	return n > 0, nil
}

// Memory is an in-process Blocklist.
type Memory struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemory creates an empty in-process blocklist.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke marks id as revoked for ttl.
func (m *Memory) Revoke(_ context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, expiry := range m.entries {
		if !now.Before(expiry) {
			delete(m.entries, key)
		}
	}
	m.entries[id] = now.Add(ttl)
	return nil
}

// IsRevoked reports whether id was revoked and has not yet expired.
func (m *Memory) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiry, ok := m.entries[id]
	if !ok {
		return false, nil
	}
	if !m.now().Before(expiry) {
		delete(m.entries, id)
		return false, nil
	}
	return true, nil
}
