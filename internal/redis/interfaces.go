package redis

import (
	"context"

	"tripsapi/internal/domain"
)

// TripPageCacheInterface defines the interface for trip listing caching.
type TripPageCacheInterface interface {
	GetPage(ctx context.Context, page, pageSize int) (tripPage *domain.TripPage, generation int64, err error)
	SetPage(ctx context.Context, generation int64, tripPage *domain.TripPage) error
	Invalidate(ctx context.Context) error
}

// PeselLockInterface defines the interface for per-Pesel registration locks.
type PeselLockInterface interface {
	AcquirePeselLock(ctx context.Context, pesel string) (token string, acquired bool, err error)
	ReleasePeselLock(ctx context.Context, pesel, token string) error
}

// Ensure concrete types implement interfaces.
var (
	_ TripPageCacheInterface = (*CacheStore)(nil)
	_ PeselLockInterface     = (*LockStore)(nil)
)
