// Package cache provides a Redis read-through cache for the design catalog.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"log/slog"
	"time"

	"knitting-catalog-service/internal/domain"
	"knitting-catalog-service/internal/store"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is where the serialized catalog is kept.
const DefaultKey = "knitting:designs:all"

// Client is the subset of the go-redis API the cache needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedStore wraps a DesignStorer and keeps its last successful listing in
// Redis for ttl. Redis failures degrade to reading the wrapped store.
type CachedStore struct {
	next   store.DesignStorer
	client Client
	ttl    time.Duration
	key    string
	logger *slog.Logger
}

func NewCachedStore(next store.DesignStorer, client Client, ttl time.Duration, logger *slog.Logger) *CachedStore {
	return &CachedStore{
		next:   next,
		client: client,
		ttl:    ttl,
		key:    DefaultKey,
		logger: logger,
	}
}

func (c *CachedStore) GetAll(ctx context.Context) iter.Seq2[domain.Design, error] {
	return func(yield func(domain.Design, error) bool) {
		designs, ok := c.lookup(ctx)
		if !ok {
			var err error
			designs, err = c.fill(ctx)
			if err != nil {
				yield(domain.Design{}, err)
				return
			}
		}
		for _, d := range designs {
			if !yield(d, nil) {
				return
			}
		}
	}
}

func (c *CachedStore) lookup(ctx context.Context) ([]domain.Design, bool) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "design cache read failed", "key", c.key, "error", err)
		}
		return nil, false
	}

	var designs []domain.Design
	if err := json.Unmarshal(data, &designs); err != nil {
		c.logger.WarnContext(ctx, "discarding unreadable design cache entry", "key", c.key, "error", err)
		return nil, false
	}
	return designs, true
}

// fill drains the wrapped store. Nothing is cached when it fails.
func (c *CachedStore) fill(ctx context.Context) ([]domain.Design, error) {
	designs := make([]domain.Design, 0)
	for d, err := range c.next.GetAll(ctx) {
		if err != nil {
			return nil, err
		}
		designs = append(designs, d)
	}

	data, err := json.Marshal(designs)
	if err != nil {
		c.logger.WarnContext(ctx, "design cache encode failed", "error", err)
		return designs, nil
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "design cache write failed", "key", c.key, "error", err)
	}
	return designs, nil
}
