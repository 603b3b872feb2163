// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/shop-backend/internal/config"
	"github.com/your-org/shop-backend/internal/domain/sales"
)

const (
	summaryCacheKey          = "analytics:daily_summary"
	defaultSummaryWindowDays = 30
)

// Cache is the slice of Redis the summary cache uses. A missing key is
// reported as redis.Nil.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type redisCache struct {
	client *redis.Client
}

// NewRedisCache wraps a Redis client as a summary cache
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

func (c *redisCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return c.client.Set(ctx, key, value, expiration).Err()
}

func (c *redisCache) Del(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

// SummarySource computes per-day aggregates from the ledger
type SummarySource interface {
	DailySummary(ctx context.Context, since time.Time) ([]sales.DailySummaryRow, error)
}

// SummaryResponse is the daily sales summary with its cache metadata. Cached
// responses carry the timestamps of the computation they were served from, so
// a reader can tell how stale the numbers are.
type SummaryResponse struct {
	GeneratedAt time.Time               `json:"generated_at"`
	ExpiresAt   time.Time               `json:"expires_at"`
	WindowDays  int                     `json:"window_days"`
	Cached      bool                    `json:"cached"`
	Days        []sales.DailySummaryRow `json:"days"`
}

// Service computes and caches sales aggregates. Only the default window is
// cached, under a single key, so a request for a different window is always
// computed fresh and can never be answered with another window's numbers.
// The cache entry carries its own expiry timestamp in addition to the Redis
// TTL, and checkout invalidates it explicitly.
type Service struct {
	cache  Cache
	source SummarySource
	config *config.Config
	logger logrus.FieldLogger
}

// NewService creates a new analytics service
func NewService(cache Cache, source SummarySource, cfg *config.Config, logger logrus.FieldLogger) *Service {
	return &Service{
		cache:  cache,
		source: source,
		config: cfg,
		logger: logger,
	}
}

// DailySummary returns per-day sales totals over the given window. The
// default window is served from cache when a fresh entry exists; other
// windows bypass the cache entirely. Cache failures degrade to a direct
// computation rather than an error.
func (s *Service) DailySummary(ctx context.Context, days int) (*SummaryResponse, error) {
	if days < 1 {
		days = defaultSummaryWindowDays
	}

	cacheable := days == defaultSummaryWindowDays
	if cacheable {
		if cached := s.loadCached(ctx); cached != nil {
			cached.Cached = true
			return cached, nil
		}
	}

	since := time.Now().UTC().AddDate(0, 0, -days).Truncate(24 * time.Hour)
	rows, err := s.source.DailySummary(ctx, since)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	response := &SummaryResponse{
		GeneratedAt: now,
		ExpiresAt:   now.Add(s.config.Shop.SummaryCacheTTL),
		WindowDays:  days,
		Days:        rows,
	}
	if cacheable {
		s.store(ctx, response)
	}
	return response, nil
}

// Invalidate drops the cached summary. Checkout calls this whenever ledger
// rows were committed so the next summary read recomputes.
func (s *Service) Invalidate(ctx context.Context) error {
	if err := s.cache.Del(ctx, summaryCacheKey); err != nil {
		return fmt.Errorf("failed to invalidate summary cache: %w", err)
	}
	return nil
}

func (s *Service) loadCached(ctx context.Context) *SummaryResponse {
	data, err := s.cache.Get(ctx, summaryCacheKey)
	if err == redis.Nil {
		return nil
	} else if err != nil {
		s.logger.WithError(err).Warn("Failed to read summary cache")
		return nil
	}

	var cached SummaryResponse
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		s.logger.WithError(err).Warn("Failed to decode summary cache entry")
		return nil
	}
	// The entry names its own window and expiry; trust neither implicitly.
	if cached.WindowDays != defaultSummaryWindowDays {
		return nil
	}
	if time.Now().UTC().After(cached.ExpiresAt) {
		return nil
	}
	return &cached
}

func (s *Service) store(ctx context.Context, response *SummaryResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to encode summary cache entry")
		return
	}
	if err := s.cache.Set(ctx, summaryCacheKey, string(data), s.config.Shop.SummaryCacheTTL); err != nil {
		s.logger.WithError(err).Warn("Failed to write summary cache")
	}
}
