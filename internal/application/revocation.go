package application

import (
	"context"
	"time"
)

// RevocationStore remembers logged-out session ids until their tokens would have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
