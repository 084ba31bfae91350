package utils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sarkargroup/smd-backend/pkg/logger"
)

// Blacklist records revoked tokens until they would have expired anyway.
type Blacklist interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	Contains(ctx context.Context, token string) (bool, error)
}

// MemoryBlacklist is a process-local blacklist. It starts empty and is lost
// on restart.
type MemoryBlacklist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Add records token. A zero expiresAt keeps the entry until restart.
func (b *MemoryBlacklist) Add(_ context.Context, token string, expiresAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[token] = expiresAt
	return nil
}

func (b *MemoryBlacklist) Contains(_ context.Context, token string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.entries[token]
	return ok, nil
}

// Purge drops entries whose token has expired and returns how many went.
func (b *MemoryBlacklist) Purge() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	removed := 0
	for token, exp := range b.entries {
		if !exp.IsZero() && exp.Before(now) {
			delete(b.entries, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked tokens.
func (b *MemoryBlacklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// RedisBlacklist shares revocations between instances. Keys expire together
// with the token they describe.
type RedisBlacklist struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisBlacklist(client redis.UniversalClient) *RedisBlacklist {
	return &RedisBlacklist{client: client, prefix: "blacklist:"}
}

func (b *RedisBlacklist) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return b.prefix + hex.EncodeToString(sum[:])
}

func (b *RedisBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	var ttl time.Duration
	if !expiresAt.IsZero() {
		ttl = time.Until(expiresAt)
		if ttl <= 0 {
			return nil
		}
	}
	if err := b.client.Set(ctx, b.key(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis blacklist add: %w", err)
	}
	return nil
}

func (b *RedisBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	n, err := b.client.Exists(ctx, b.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("redis blacklist lookup: %w", err)
	}
	return n > 0, nil
}

var (
	blacklistMu      sync.RWMutex
	defaultBlacklist Blacklist = NewMemoryBlacklist()
)

// SetBlacklist replaces the process-wide store.
func SetBlacklist(b Blacklist) {
	blacklistMu.Lock()
	defer blacklistMu.Unlock()
	defaultBlacklist = b
}

// DefaultBlacklist returns the process-wide store.
func DefaultBlacklist() Blacklist {
	blacklistMu.RLock()
	defer blacklistMu.RUnlock()
	return defaultBlacklist
}

// BlacklistToken revokes token in the process-wide store.
func BlacklistToken(token string) error {
	var expiresAt time.Time
	if claims := Decode(token); claims != nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return DefaultBlacklist().Add(context.Background(), token, expiresAt)
}

// IsTokenBlacklisted reports whether token was revoked. Lookup failures count
// as revoked.
func IsTokenBlacklisted(token string) bool {
	ok, err := DefaultBlacklist().Contains(context.Background(), token)
	if err != nil {
		logger.Warn().Err(err).Msg("blacklist lookup failed")
		return true
	}
	return ok
}
