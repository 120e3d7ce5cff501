package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"tripsapi/internal/config"
)

// Datastore collections reported to New Relic, by key prefix.
var redisCollections = []struct {
	prefix     string
	collection string
}{
	{"cache:trips:", "trip_pages"},
	{"lock:pesel:", "pesel_locks"},
	{"idempotency:", "idempotency"},
}

const defaultRedisCollection = "redis"

// NewRedisClient connects to Redis. With nrApp set, every command is recorded
// as a datastore segment named after the key namespace it touches.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, nrApp *newrelic.Application) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if nrApp != nil {
		client.AddHook(tripsRedisHook{})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}

	return client, nil
}

// redisCollection maps the key a command operates on to its collection.
func redisCollection(cmd redis.Cmder) string {
	args := cmd.Args()

	keyIndex := 1
	switch strings.ToLower(cmd.Name()) {
	case "eval", "evalsha":
		// EVAL script numkeys key...
		keyIndex = 3
	}
	if len(args) <= keyIndex {
		return defaultRedisCollection
	}

	key, ok := args[keyIndex].(string)
	if !ok {
		return defaultRedisCollection
	}
	for _, c := range redisCollections {
		if strings.HasPrefix(key, c.prefix) {
			return c.collection
		}
	}
	return defaultRedisCollection
}

type tripsRedisHook struct{}

func startRedisSegment(ctx context.Context, operation, collection string) func() {
	txn := newrelic.FromContext(ctx)
	if txn == nil {
		return func() {}
	}
	segment := newrelic.DatastoreSegment{
		StartTime:  txn.StartSegmentNow(),
		Product:    newrelic.DatastoreRedis,
		Operation:  operation,
		Collection: collection,
	}
	return segment.End
}

func (tripsRedisHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (tripsRedisHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		defer startRedisSegment(ctx, cmd.Name(), redisCollection(cmd))()
		return next(ctx, cmd)
	}
}

func (tripsRedisHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		collection := defaultRedisCollection
		if len(cmds) > 0 {
			collection = redisCollection(cmds[0])
		}
		defer startRedisSegment(ctx, "pipeline", collection)()
		return next(ctx, cmds)
	}
}
