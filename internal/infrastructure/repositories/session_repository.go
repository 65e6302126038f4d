package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/authsvc/domain"
)

// CacheKeyPrefix is the single canonical session key prefix. Earlier
// revisions of the system diverged between two spellings, which made writes
// and reads silently miss each other.
const CacheKeyPrefix = "cache_user_info_"

// SessionRepositoryImpl implements domain.SessionCache using Redis
type SessionRepositoryImpl struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository creates a new session cache backed by Redis. Every
// Save rewrites the key and resets its TTL.
func NewSessionRepository(client *redis.Client, ttl time.Duration) domain.SessionCache {
	return &SessionRepositoryImpl{
		client: client,
		ttl:    ttl,
	}
}

// Save implements domain.SessionCache
func (r *SessionRepositoryImpl) Save(ctx context.Context, entry *domain.SessionEntry) error {
	key := CacheKeyPrefix + entry.LoginID
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal session entry: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInternalStore, err)
	}
	return nil
}

// Get implements domain.SessionCache. A missing key means the user has no
// live session, which is distinct from an invalid or expired token.
func (r *SessionRepositoryImpl) Get(ctx context.Context, loginID string) (*domain.SessionEntry, error) {
	key := CacheKeyPrefix + loginID
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInternalStore, err)
	}

	var entry domain.SessionEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session entry: %w", err)
	}

	return &entry, nil
}

// Delete implements domain.SessionCache
func (r *SessionRepositoryImpl) Delete(ctx context.Context, loginID string) error {
	key := CacheKeyPrefix + loginID
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInternalStore, err)
	}
	return nil
}
