package annotation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"kycflow/internal/cases/models"
	"kycflow/pkg/requestcontext"
)

// ErrCacheMiss is returned by ResultCache.Get when the key is absent.
var ErrCacheMiss = errors.New("annotation cache miss")

// ResultCache stores serialized annotation results.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisResultCache is a ResultCache on go-redis.
type RedisResultCache struct {
	client redis.Cmdable
}

func NewRedisResultCache(client redis.Cmdable) *RedisResultCache {
	return &RedisResultCache{client: client}
}

func (c *RedisResultCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (c *RedisResultCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// CachingAnnotator memoizes results by content digest. Concurrent requests
// for the same bytes share one upstream call. Cache failures are logged and
// the inner annotator is used directly.
type CachingAnnotator struct {
	inner  Annotator
	cache  ResultCache
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
	onHit  func(op string, hit bool)
}

type CacheOption func(*CachingAnnotator)

func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *CachingAnnotator) { c.logger = logger }
}

// WithCacheObserver receives one call per lookup; used for hit-rate metrics.
func WithCacheObserver(fn func(op string, hit bool)) CacheOption {
	return func(c *CachingAnnotator) { c.onHit = fn }
}

func NewCachingAnnotator(inner Annotator, cache ResultCache, ttl time.Duration, opts ...CacheOption) *CachingAnnotator {
	c := &CachingAnnotator{inner: inner, cache: cache, ttl: ttl, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachingAnnotator) Classify(ctx context.Context, in Input) (*models.Classification, error) {
	var out models.Classification
	err := c.cached(ctx, "classify", in, &out, func() (any, error) {
		return c.inner.Classify(ctx, in)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CachingAnnotator) Extract(ctx context.Context, in Input) (*models.Extraction, error) {
	var out models.Extraction
	err := c.cached(ctx, "extract", in, &out, func() (any, error) {
		return c.inner.Extract(ctx, in)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// cached decodes a hit into out, or runs call once per key and stores its
// JSON form. Results pass through JSON either way so callers never share
// pointers.
func (c *CachingAnnotator) cached(ctx context.Context, op string, in Input, out any, call func() (any, error)) error {
	key := "kycflow:annotation:" + op + ":" + in.Digest()

	if raw, err := c.cache.Get(ctx, key); err == nil {
		if jsonErr := json.Unmarshal(raw, out); jsonErr == nil {
			c.observe(op, true)
			return nil
		}
	} else if !errors.Is(err, ErrCacheMiss) {
		c.logger.WarnContext(ctx, "annotation cache unavailable",
			"request_id", requestcontext.RequestID(ctx),
			"operation", op,
			"error", err,
		)
	}
	c.observe(op, false)

	raw, err, _ := c.group.Do(key, func() (any, error) {
		result, err := call()
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("encode %s result: %w", op, err)
		}
		if err := c.cache.Set(ctx, key, encoded, c.ttl); err != nil {
			c.logger.WarnContext(ctx, "annotation cache write failed",
				"request_id", requestcontext.RequestID(ctx),
				"operation", op,
				"error", err,
			)
		}
		return encoded, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw.([]byte), out)
}

func (c *CachingAnnotator) observe(op string, hit bool) {
	if c.onHit != nil {
		c.onHit(op, hit)
	}
}
