package token

import (
	"context"
	"errors"
	"strconv"
	"time"

	r "github.com/redis/go-redis/v9"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/middleware/redis"
	"github.com/scienceol/labmate/pkg/repo"
)

const keyPrefix = "labmate:token:"

// tokenImpl 在 redis 不可用时退化为不校验吊销状态
type tokenImpl struct {
	client func() *r.Client
}

func NewTokenRepo() repo.TokenRepo {
	return &tokenImpl{client: redis.GetClient}
}

func NewTokenRepoWithClient(client func() *r.Client) repo.TokenRepo {
	return &tokenImpl{client: client}
}

func (t *tokenImpl) Register(ctx context.Context, tokenID string, userID int64, ttl time.Duration) error {
	client := t.client()
	if client == nil {
		return nil
	}
	if err := client.Set(ctx, keyPrefix+tokenID, strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		return code.CacheErr.WithErr(err)
	}
	return nil
}

func (t *tokenImpl) IsActive(ctx context.Context, tokenID string) (bool, error) {
	client := t.client()
	if client == nil {
		return true, nil
	}
	err := client.Get(ctx, keyPrefix+tokenID).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, r.Nil):
		return false, nil
	default:
		return false, code.CacheErr.WithErr(err)
	}
}

func (t *tokenImpl) Revoke(ctx context.Context, tokenID string) error {
	client := t.client()
	if client == nil {
		return nil
	}
	if err := client.Del(ctx, keyPrefix+tokenID).Err(); err != nil {
		return code.TokenRevokeErr.WithErr(err)
	}
	return nil
}
