package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tripsapi/internal/domain"
)

// DefaultTripPageTTL is used when no TTL is configured.
const DefaultTripPageTTL = 30 * time.Second

// Key prefixes
const (
	tripPageGenerationKey = "cache:trips:generation"
	tripPagePrefix        = "cache:trips:page:"
)

// CacheStore caches trip listing pages in Redis.
//
// Pages are keyed by a generation counter. Invalidate bumps the counter so
// every page cached before it becomes unreachable and expires on its own.
type CacheStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client, ttl time.Duration) *CacheStore {
	if ttl <= 0 {
		ttl = DefaultTripPageTTL
	}
	return &CacheStore{client: client, ttl: ttl}
}

func (s *CacheStore) generation(ctx context.Context) (int64, error) {
	gen, err := s.client.Get(ctx, tripPageGenerationKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return gen, nil
}

func pageKey(gen int64, page, pageSize int) string {
	return fmt.Sprintf("%s%d:%d:%d", tripPagePrefix, gen, page, pageSize)
}

// GetPage retrieves a cached page. Returns a nil page on a cache miss.
// The returned generation must be passed to SetPage when the caller fills
// the miss, so a page loaded before an Invalidate is never stored under
// the newer generation.
func (s *CacheStore) GetPage(ctx context.Context, page, pageSize int) (*domain.TripPage, int64, error) {
	gen, err := s.generation(ctx)
	if err != nil {
		return nil, 0, err
	}

	data, err := s.client.Get(ctx, pageKey(gen, page, pageSize)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, gen, nil // Cache miss
		}
		return nil, gen, err
	}

	var tripPage domain.TripPage
	if err := json.Unmarshal(data, &tripPage); err != nil {
		return nil, gen, err
	}
	return &tripPage, gen, nil
}

// SetPage stores a page under the generation observed by GetPage.
func (s *CacheStore) SetPage(ctx context.Context, gen int64, tripPage *domain.TripPage) error {
	data, err := json.Marshal(tripPage)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, pageKey(gen, tripPage.PageNum, tripPage.PageSize), data, s.ttl).Err()
}

// Invalidate makes every cached page unreachable.
func (s *CacheStore) Invalidate(ctx context.Context) error {
	return s.client.Incr(ctx, tripPageGenerationKey).Err()
}
