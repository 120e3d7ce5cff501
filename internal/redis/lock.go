package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultPeselLockTTL is used when no TTL is configured.
const DefaultPeselLockTTL = 10 * time.Second

const peselLockPrefix = "lock:pesel:"

// releaseScript deletes the lock only if it is still held by the caller.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client, ttl time.Duration) *LockStore {
	if ttl <= 0 {
		ttl = DefaultPeselLockTTL
	}
	return &LockStore{client: client, ttl: ttl}
}

// AcquirePeselLock attempts to acquire the registration lock for a Pesel.
// The returned token must be passed to ReleasePeselLock.
func (s *LockStore) AcquirePeselLock(ctx context.Context, pesel string) (string, bool, error) {
	token := uuid.New().String()

	ok, err := s.client.SetNX(ctx, peselLockPrefix+pesel, token, s.ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}

	return token, true, nil
}

// ReleasePeselLock releases the lock if token still owns it.
func (s *LockStore) ReleasePeselLock(ctx context.Context, pesel, token string) error {
	return releaseScript.Run(ctx, s.client, []string{peselLockPrefix + pesel}, token).Err()
}
