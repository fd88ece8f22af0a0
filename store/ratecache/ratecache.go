// Package ratecache caches exchange rates in redis.
package ratecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/referral"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultTTL is the time a cached rate is kept.
const DefaultTTL = time.Hour

const (
	keyPrefix    = "refs:rate:"
	periodLayout = "2006-01-02T15:04"
)

// KV is the subset of the redis client used by the cache.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Connect returns a client of the redis server at addr, once it answers.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("addr", addr).Msg("connected to redis")
	return rdb, nil
}

// Cache is a read-through cache in front of a RateSource.
//
// Rates are cached per pair and per period of ttl: a lookup is answered from
// the entry of the period holding asOf, so a rate that became effective since
// is seen at most ttl late. A failing cache never fails a lookup, the source
// is used instead.
type Cache struct {
	kv  KV
	src referral.RateSource
	ttl time.Duration
}

// New returns a Cache of src stored in kv. A ttl of zero means DefaultTTL.
func New(kv KV, src referral.RateSource, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{kv: kv, src: src, ttl: ttl}
}

// Key returns the cache key of a pair for the period starting at period.
func Key(base, quote string, period time.Time) string {
	return keyPrefix + base + ":" + quote + ":" + period.UTC().Format(periodLayout)
}

// period returns the start of the cache period holding asOf.
func (c *Cache) period(asOf time.Time) time.Time { return asOf.UTC().Truncate(c.ttl) }

// LatestRate implements referral.RateSource.
func (c *Cache) LatestRate(ctx context.Context, base, quote string, asOf time.Time) (referral.Rate, error) {
	log := zerolog.Ctx(ctx)
	key := Key(base, quote, c.period(asOf))

	store := true
	data, err := c.kv.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var r referral.Rate
		if err := json.Unmarshal(data, &r); err != nil {
			log.Warn().Str("key", key).Msg("invalid cached rate, ignored")
			break
		}
		if !r.On.After(asOf) {
			return r, nil
		}
		// cached by a later lookup of the same period, not yet effective at asOf.
		store = false
	case errors.Is(err, redis.Nil):
	default:
		log.Warn().Err(err).Str("key", key).Msg("rate cache unavailable")
	}

	r, err := c.src.LatestRate(ctx, base, quote, asOf)
	if err != nil || !store {
		return r, err
	}
	if data, err = json.Marshal(r); err == nil {
		err = c.kv.Set(ctx, key, data, c.ttl).Err()
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cannot cache rate")
	}
	return r, nil
}
