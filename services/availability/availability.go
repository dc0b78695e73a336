// Package availability coordinates fetching the slot sequence for a
// barber/service-set/date tuple: concurrent requests for one tuple share a
// single fetch, successful answers are cached for a short validity window,
// and a cached or in-flight answer is dropped the moment the tuple changes.
package availability

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"barbook/models"
	"barbook/utils"
)

// Source answers one availability query. The production source computes
// locally from the schedule and appointment stores; a remote backend client
// satisfies the same contract.
type Source interface {
	FetchDayAvailability(ctx context.Context, barberID string, serviceIDs []string, date string) (*models.DayAvailability, error)
}

// ResultCache is the slice of the Redis client the query needs; kept narrow
// so tests can substitute it.
type ResultCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Query is the caching, de-duplicating front of a Source.
type Query struct {
	Source Source
	Cache  ResultCache // optional; nil disables result caching
	TTL    time.Duration

	group singleflight.Group

	// gen counts invalidations per key. A fetch only writes its result to
	// the cache if no invalidation happened while it was in flight.
	mu  sync.Mutex
	gen map[string]uint64
}

// NewQuery wires a Query with the given result TTL.
func NewQuery(source Source, cache ResultCache, ttl time.Duration) *Query {
	return &Query{Source: source, Cache: cache, TTL: ttl, gen: make(map[string]uint64)}
}

// Get returns the slot sequence for the key. Outstanding requests are keyed
// by the exact tuple so concurrent callers share one in-flight fetch.
func (q *Query) Get(ctx context.Context, key models.AvailabilityKey) (*models.DayAvailability, error) {
	cacheKey := key.String()

	if cached := q.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	v, err, _ := q.group.Do(cacheKey, func() (interface{}, error) {
		gen := q.generation(cacheKey)
		day, err := q.Source.FetchDayAvailability(ctx, key.BarberID, key.ServiceIDs, key.Date)
		if err != nil {
			return nil, err
		}
		if q.generation(cacheKey) == gen {
			q.toCache(ctx, cacheKey, day)
		}
		return day, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.DayAvailability), nil
}

// Invalidate drops the cached result and forgets any in-flight fetch for the
// key, so a response computed for an abandoned selection can never be reused.
// A fetch already in flight still answers its own callers but its result is
// not written back to the cache.
func (q *Query) Invalidate(ctx context.Context, key models.AvailabilityKey) {
	cacheKey := key.String()

	q.mu.Lock()
	if q.gen == nil {
		q.gen = make(map[string]uint64)
	}
	q.gen[cacheKey]++
	q.mu.Unlock()

	q.group.Forget(cacheKey)
	if q.Cache != nil {
		if err := q.Cache.Del(ctx, cacheKey).Err(); err != nil {
			utils.GetLogger().Warn("failed to drop cached availability",
				zap.String("key", cacheKey), zap.Error(err))
		}
	}
}

func (q *Query) generation(cacheKey string) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.gen[cacheKey]
}

func (q *Query) fromCache(ctx context.Context, cacheKey string) *models.DayAvailability {
	if q.Cache == nil {
		return nil
	}
	data, err := q.Cache.Get(ctx, cacheKey).Result()
	if err != nil {
		return nil
	}
	var day models.DayAvailability
	if err := json.Unmarshal([]byte(data), &day); err != nil {
		utils.GetLogger().Warn("corrupt cached availability dropped",
			zap.String("key", cacheKey), zap.Error(err))
		q.Cache.Del(ctx, cacheKey)
		return nil
	}
	return &day
}

func (q *Query) toCache(ctx context.Context, cacheKey string, day *models.DayAvailability) {
	if q.Cache == nil {
		return
	}
	data, err := json.Marshal(day)
	if err != nil {
		return
	}
	if err := q.Cache.Set(ctx, cacheKey, data, q.TTL).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache availability",
			zap.String("key", cacheKey), zap.Error(err))
	}
}
