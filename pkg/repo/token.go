package repo

import (
	"context"
	"time"
)

// TokenRepo tracks issued token ids so logout can revoke them.
type TokenRepo interface {
	Register(ctx context.Context, tokenID string, userID int64, ttl time.Duration) error
	IsActive(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string) error
}
