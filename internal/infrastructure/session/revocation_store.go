// Package session keeps the Redis-backed list of logged-out session tokens.
package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/notekeeper/pkg/helpers"
)

type RevocationStore struct {
	rdb *redis.Client
}

func NewRevocationStore(rdb *redis.Client) *RevocationStore {
	return &RevocationStore{rdb: rdb}
}

func (s *RevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return s.rdb.Set(ctx, helpers.KeyRevokedSession(jti), 1, ttl).Err()
}

func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return helpers.RedisExists(ctx, s.rdb, helpers.KeyRevokedSession(jti))
}
