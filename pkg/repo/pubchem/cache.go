package pubchem

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	r "github.com/redis/go-redis/v9"
	"github.com/scienceol/labmate/internal/config"
	"github.com/scienceol/labmate/pkg/middleware/logger"
	"github.com/scienceol/labmate/pkg/middleware/redis"
	"github.com/scienceol/labmate/pkg/repo"
)

const cacheKeyPrefix = "labmate:pubchem:"

// cachedRepo keeps successful lookups in redis. Misses and failures are not cached.
type cachedRepo struct {
	next   repo.PubChemRepo
	client func() *r.Client
	ttl    time.Duration
}

func NewCachedPubChemRepo() repo.PubChemRepo {
	ttl := time.Duration(config.Global().RPC.PubChem.CacheTTLHours) * time.Hour
	return NewCachedRepo(NewPubChemRepo(), redis.GetClient, ttl)
}

func NewCachedRepo(next repo.PubChemRepo, client func() *r.Client, ttl time.Duration) repo.PubChemRepo {
	return &cachedRepo{next: next, client: client, ttl: ttl}
}

func cacheKey(name string) string {
	return cacheKeyPrefix + strings.ToLower(strings.TrimSpace(name))
}

func (c *cachedRepo) GetCompoundByName(ctx context.Context, name string) (*repo.CompoundInfo, error) {
	client := c.client()
	if client == nil {
		return c.next.GetCompoundByName(ctx, name)
	}

	key := cacheKey(name)
	raw, err := client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		info := &repo.CompoundInfo{}
		if jsonErr := json.Unmarshal(raw, info); jsonErr == nil {
			return info, nil
		}
		logger.Warnf(ctx, "drop corrupt pubchem cache key: %s", key)
	case !errors.Is(err, r.Nil):
		logger.Warnf(ctx, "read pubchem cache err: %+v", err)
	}

	info, err := c.next.GetCompoundByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(info); err == nil {
		if err := client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			logger.Warnf(ctx, "write pubchem cache err: %+v", err)
		}
	}
	return info, nil
}
