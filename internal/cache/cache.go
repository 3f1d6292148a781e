package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/qfdstudio/hoq/internal/metrics"
	"github.com/qfdstudio/hoq/internal/qfd"
)

// AnalysisCache keeps computed project analyses in Redis so repeated reads
// skip the scoring pass. Entries expire after the configured TTL and are
// invalidated whenever the project's matrix changes.
type AnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func New(addr, password string, db int, ttl time.Duration, logger *slog.Logger) *AnalysisCache {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
	return &AnalysisCache{client: client, ttl: ttl, logger: logger}
}

// NewWithClient wraps an existing Redis client. Tests use this with miniredis.
func NewWithClient(client *redis.Client, ttl time.Duration, logger *slog.Logger) *AnalysisCache {
	return &AnalysisCache{client: client, ttl: ttl, logger: logger}
}

func analysisKey(projectID uuid.UUID) string {
	return "qfd:analysis:" + projectID.String()
}

// Get returns the cached analysis for a project, or nil on a miss. A corrupt
// entry counts as a miss and is dropped.
func (c *AnalysisCache) Get(ctx context.Context, projectID uuid.UUID) (*qfd.Analysis, error) {
	data, err := c.client.Get(ctx, analysisKey(projectID)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheMisses.Inc()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var analysis qfd.Analysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		c.logger.Warn("dropping corrupt cache entry", "project_id", projectID, "error", err)
		_ = c.client.Del(ctx, analysisKey(projectID)).Err()
		metrics.CacheMisses.Inc()
		return nil, nil
	}

	metrics.CacheHits.Inc()
	return &analysis, nil
}

func (c *AnalysisCache) Set(ctx context.Context, projectID uuid.UUID, analysis *qfd.Analysis) error {
	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, analysisKey(projectID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *AnalysisCache) Invalidate(ctx context.Context, projectID uuid.UUID) error {
	if err := c.client.Del(ctx, analysisKey(projectID)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (c *AnalysisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *AnalysisCache) Close() error {
	return c.client.Close()
}
