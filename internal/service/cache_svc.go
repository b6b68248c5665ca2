package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/mathieu-neron/songrec/internal/model"
)

// RecommendationCacheTTL bounds how long a cached copy or removal marker lives.
const RecommendationCacheTTL = 5 * time.Minute

const (
	recommendationKeyPrefix = "recommendation:"
	// removedMarker replaces the cached copy of a deleted recommendation.
	removedMarker = "removed"
)

// storeIfNewer writes "<version>:<payload>" unless the key holds the removal
// marker or a copy with the same or a higher version.
// KEYS[1] key, ARGV[1] version, ARGV[2] value, ARGV[3] ttl ms, ARGV[4] marker.
var storeIfNewer = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur then
	if cur == ARGV[4] then
		return 0
	end
	local v = tonumber(string.match(cur, '^(%d+):'))
	if v and v >= tonumber(ARGV[1]) then
		return 0
	end
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// cachedRecommendation is the cache payload. Unlike the API shape it keeps
// the creation time and version.
type cachedRecommendation struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	YoutubeLink string    `json:"youtubeLink"`
	Score       int       `json:"score"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int64     `json:"version"`
}

// The breaker opens after this many consecutive Redis failures and lets one
// call through again after cacheBreakerTimeout.
const (
	cacheBreakerTrips   = 5
	cacheBreakerTimeout = 30 * time.Second
)

// CacheService provides a Redis cache-aside layer for recommendation lookups.
// A nil *CacheService, or one without a client, turns every operation into a no-op.
type CacheService struct {
	rdb     *redis.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  zerolog.Logger
	onHit   func()
	onMiss  func()
}

// NewCacheService creates a new CacheService. If redisURL is empty or connection
// fails, it returns a CacheService with a nil client (cache operations become no-ops).
func NewCacheService(redisURL string, logger zerolog.Logger) *CacheService {
	logger = logger.With().Str("component", "cache").Logger()
	if redisURL == "" {
		logger.Info().Msg("redis: no URL configured, caching disabled")
		return &CacheService{logger: logger}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis: invalid URL, caching disabled")
		return &CacheService{logger: logger}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis: connection failed, caching disabled")
		_ = rdb.Close()
		return &CacheService{logger: logger}
	}

	logger.Info().Msg("redis: connected, caching enabled")
	return newCacheService(rdb, logger)
}

func newCacheService(rdb *redis.Client, logger zerolog.Logger) *CacheService {
	c := &CacheService{rdb: rdb, logger: logger}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cacheBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cacheBreakerTrips
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("redis: circuit breaker state change")
		},
	})
	return c
}

// SetObserver registers callbacks counting cache hits and misses.
func (c *CacheService) SetObserver(onHit, onMiss func()) {
	if c == nil {
		return
	}
	c.onHit, c.onMiss = onHit, onMiss
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.rdb
}

func (c *CacheService) enabled() bool {
	return c != nil && c.rdb != nil
}

// GetRecommendation looks a recommendation up. hit reports whether the key
// was present; a hit with a nil record means the recommendation was removed.
// Read failures are logged and reported as a miss.
func (c *CacheService) GetRecommendation(ctx context.Context, id int64) (rec *model.Recommendation, hit bool) {
	if !c.enabled() {
		return nil, false
	}

	data, err := c.breaker.Execute(func() ([]byte, error) {
		return c.rdb.Get(ctx, recommendationKey(id)).Bytes()
	})
	if err != nil {
		switch {
		case errors.Is(err, redis.Nil):
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			c.logger.Debug().Err(err).Int64("id", id).Msg("redis: get skipped")
		default:
			c.logger.Warn().Err(err).Int64("id", id).Msg("redis: get failed")
		}
		c.observe(c.onMiss)
		return nil, false
	}

	if string(data) == removedMarker {
		c.observe(c.onHit)
		return nil, true
	}

	rec, err = decodeEntry(data)
	if err != nil {
		c.logger.Warn().Err(err).Int64("id", id).Msg("redis: corrupt cache entry")
		c.observe(c.onMiss)
		return nil, false
	}
	c.observe(c.onHit)
	return rec, true
}

// SetRecommendation caches rec unless the cache already holds the same or a
// newer version, or a removal marker. Read fills and vote results both go
// through here, so their order of arrival does not matter.
func (c *CacheService) SetRecommendation(ctx context.Context, rec *model.Recommendation) error {
	if !c.enabled() || rec == nil {
		return nil
	}
	value, err := encodeEntry(rec)
	if err != nil {
		return err
	}
	return c.run(func() error {
		return storeIfNewer.Run(ctx, c.rdb,
			[]string{recommendationKey(rec.ID)},
			rec.Version, value, RecommendationCacheTTL.Milliseconds(), removedMarker,
		).Err()
	})
}

// MarkRemoved replaces any cached copy with the removal marker.
func (c *CacheService) MarkRemoved(ctx context.Context, id int64) error {
	if !c.enabled() {
		return nil
	}
	return c.run(func() error {
		return c.rdb.Set(ctx, recommendationKey(id), removedMarker, RecommendationCacheTTL).Err()
	})
}

// InvalidateAll removes every cached recommendation and removal marker.
func (c *CacheService) InvalidateAll(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}

	return c.run(func() error {
		iter := c.rdb.Scan(ctx, 0, recommendationKeyPrefix+"*", 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		return c.rdb.Del(ctx, keys...).Err()
	})
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.rdb.Close()
}

// run executes a write through the breaker.
func (c *CacheService) run(fn func() error) error {
	_, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, fn()
	})
	return err
}

func (c *CacheService) observe(fn func()) {
	if fn != nil {
		fn()
	}
}

func encodeEntry(rec *model.Recommendation) (string, error) {
	b, err := json.Marshal(cachedRecommendation{
		ID:          rec.ID,
		Name:        rec.Name,
		YoutubeLink: rec.YoutubeLink,
		Score:       rec.Score,
		CreatedAt:   rec.CreatedAt,
		Version:     rec.Version,
	})
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(rec.Version, 10) + ":" + string(b), nil
}

func decodeEntry(data []byte) (*model.Recommendation, error) {
	_, payload, ok := strings.Cut(string(data), ":")
	if !ok {
		return nil, fmt.Errorf("missing version prefix")
	}
	var entry cachedRecommendation
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return nil, err
	}
	return &model.Recommendation{
		ID:          entry.ID,
		Name:        entry.Name,
		YoutubeLink: entry.YoutubeLink,
		Score:       entry.Score,
		CreatedAt:   entry.CreatedAt,
		Version:     entry.Version,
	}, nil
}

func recommendationKey(id int64) string {
	return fmt.Sprintf("%s%d", recommendationKeyPrefix, id)
}
