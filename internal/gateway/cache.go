package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/terra-clan/portfolio/internal/models"
)

// ProjectsCacheKey is the redis key holding the published projects list
const ProjectsCacheKey = "portfolio:projects:published"

// ProjectSource fetches published projects
type ProjectSource interface {
	FetchPublishedProjects(ctx context.Context) ([]models.Project, error)
}

// cacheClient is the part of redis.Cmdable the cache uses
type cacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedProjects is a read-through redis cache in front of a ProjectSource.
// Redis failures are logged and the source is used directly.
type CachedProjects struct {
	source ProjectSource
	rdb    cacheClient
	ttl    time.Duration
}

// NewCachedProjects wraps source with a redis cache
func NewCachedProjects(source ProjectSource, rdb cacheClient, ttl time.Duration) *CachedProjects {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedProjects{source: source, rdb: rdb, ttl: ttl}
}

// FetchPublishedProjects serves from cache when possible
func (c *CachedProjects) FetchPublishedProjects(ctx context.Context) ([]models.Project, error) {
	data, err := c.rdb.Get(ctx, ProjectsCacheKey).Bytes()
	switch {
	case err == nil:
		var projects []models.Project
		if err := json.Unmarshal(data, &projects); err == nil {
			return projects, nil
		}
		slog.Warn("discarding corrupt projects cache entry", "key", ProjectsCacheKey)
	case !errors.Is(err, redis.Nil):
		slog.Warn("projects cache read failed", "error", err)
	}

	projects, err := c.source.FetchPublishedProjects(ctx)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(projects)
	if err != nil {
		slog.Warn("failed to encode projects for cache", "error", err)
		return projects, nil
	}

	if err := c.rdb.Set(ctx, ProjectsCacheKey, data, c.ttl).Err(); err != nil {
		slog.Warn("projects cache write failed", "error", err)
	}

	return projects, nil
}

// Invalidate drops the cached list
func (c *CachedProjects) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, ProjectsCacheKey).Err()
}
