package circle

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"trust_insight/pkg/store"
)

// cacheNamespace scopes trusted-circle entries in the backing store.
const cacheNamespace = "trusted_circle"

// DefaultCacheTTL is how long a cached trusted circle stays valid.
const DefaultCacheTTL = 5 * time.Minute

// Cache is the time-boxed trusted-circle cache, keyed by user
// address. The TTL is enforced here on read; the backing store never
// expires anything on its own.
type Cache struct {
	store  store.Store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewCache creates a cache over the given store. A zero ttl falls
// back to DefaultCacheTTL.
func NewCache(s store.Store, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		store:  s,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns the cached contact list for userAddress. The boolean is
// false on a miss: no entry, an undecodable entry, or an entry past
// its TTL. Misses force a refetch, never an error.
func (c *Cache) Get(ctx context.Context, userAddress string) ([]TrustedContact, bool) {
	raw, err := c.store.Get(ctx, cacheNamespace, userAddress)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.logger.Warn("Trusted circle cache read failed",
				zap.String("user", userAddress),
				zap.Error(err))
		}
		return nil, false
	}

	var entry CachedTrustedCircle
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.Warn("Discarding undecodable trusted circle entry",
			zap.String("user", userAddress),
			zap.Error(err))
		return nil, false
	}

	if c.now().Sub(entry.Timestamp) > c.ttl {
		return nil, false
	}
	return entry.Contacts, true
}

// Set stores contacts for userAddress with the current timestamp,
// fully replacing any prior entry.
func (c *Cache) Set(ctx context.Context, userAddress string, contacts []TrustedContact) error {
	entry := CachedTrustedCircle{
		Contacts:  contacts,
		Timestamp: c.now(),
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, cacheNamespace, userAddress, raw)
}
