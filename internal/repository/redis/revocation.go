package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked"

// Token denylist kept in redis
// Every revoked token id is stored as separate key that expires together with the token
type RevocationStore struct {
	client *redis.Client
	prefix string
}

func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{
		client: client,
		prefix: revokedKeyPrefix,
	}
}

func (s *RevocationStore) key(tokenID string) string {
	return s.prefix + ":" + tokenID
}

// Put token id on denylist for ttl
// Already expired token (ttl <= 0) can't be used anyway so nothing is stored
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	// Redis can't expire keys faster than a millisecond
	ttl = max(ttl, time.Millisecond)

	if err := s.client.Set(ctx, s.key(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}

	return n > 0, nil
}
