package roblox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bloxkit/rbx-client/internal/constants"
)

// CacheType selects a response-cache backend.
type CacheType string

const (
	// CacheTypeMemory is the in-process cache.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeNATS stores responses in a NATS JetStream key-value
	// bucket, shared across processes.
	CacheTypeNATS CacheType = "nats"

	// CacheTypeNone disables caching.
	CacheTypeNone CacheType = "none"
)

// ErrUnknownCacheType indicates an unrecognized CacheType.
var ErrUnknownCacheType = errors.New("unknown cache type")

// NATSCacheConfig configures the NATS KV backend.
type NATSCacheConfig struct {
	// URL is the NATS server URL.
	URL string

	// Bucket is the KV bucket name. Created if absent.
	Bucket string

	// Credentials is an optional credentials file path.
	Credentials string

	// TTL is the bucket-level entry TTL.
	TTL time.Duration
}

// CacheConfig configures the response cache.
type CacheConfig struct {
	// Type selects the backend. Empty means memory.
	Type CacheType

	// MaxEntries caps the memory backend.
	MaxEntries int

	// CleanupInterval is the memory backend's sweep interval.
	CleanupInterval time.Duration

	// NATS configures the NATS backend.
	NATS *NATSCacheConfig

	// Policy decides what gets cached. Nil means the default policy.
	Policy *CachingPolicy
}

// NewCacheFromConfig builds a Cache backend from configuration.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		return NewNoOpCache(), nil
	}

	switch config.Type {
	case CacheTypeMemory, "":
		return NewMemoryCache(config.MaxEntries, config.CleanupInterval), nil
	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, fmt.Errorf("%w: nats cache requires NATS configuration", ErrUnknownCacheType)
		}

		return NewNATSCache(config.NATS)
	case CacheTypeNone:
		return NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCacheType, config.Type)
	}
}

// NewCacheManagerFromConfig builds a CacheManager from configuration.
func NewCacheManagerFromConfig(config *CacheConfig) (*CacheManager, error) {
	cache, err := NewCacheFromConfig(config)
	if err != nil {
		return nil, err
	}

	var policy *CachingPolicy
	if config != nil {
		policy = config.Policy
	}

	return NewCacheManager(cache, policy), nil
}

// CacheChain layers caches: reads try each level in order and promote
// hits to earlier levels, writes go to every level.
type CacheChain struct {
	levels []Cache
	ttl    time.Duration
}

// NewCacheChain creates a chain over the given levels, first level
// first. Promotion entries use ttl.
func NewCacheChain(ttl time.Duration, levels ...Cache) *CacheChain {
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}

	return &CacheChain{levels: levels, ttl: ttl}
}

// Get implements Cache.
func (c *CacheChain) Get(ctx context.Context, key string) ([]byte, bool) {
	for i, level := range c.levels {
		value, ok := level.Get(ctx, key)
		if !ok {
			continue
		}

		for j := 0; j < i; j++ {
			_ = c.levels[j].Set(ctx, key, value, c.ttl)
		}

		return value, true
	}

	return nil, false
}

// Set implements Cache, writing through every level.
func (c *CacheChain) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var errs []error

	for _, level := range c.levels {
		if err := level.Set(ctx, key, value, ttl); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Delete implements Cache.
func (c *CacheChain) Delete(ctx context.Context, key string) error {
	var errs []error

	for _, level := range c.levels {
		if err := level.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Clear implements Cache.
func (c *CacheChain) Clear(ctx context.Context) error {
	var errs []error

	for _, level := range c.levels {
		if err := level.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Close implements Cache.
func (c *CacheChain) Close() error {
	var errs []error

	for _, level := range c.levels {
		if err := level.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// CacheBuilder assembles a CacheManager fluently.
type CacheBuilder struct {
	levels []Cache
	policy *CachingPolicy
	ttl    time.Duration
	err    error
}

// NewCacheBuilder creates an empty builder.
func NewCacheBuilder() *CacheBuilder {
	return &CacheBuilder{}
}

// WithMemory adds an in-process level.
func (b *CacheBuilder) WithMemory(maxEntries int, cleanupInterval time.Duration) *CacheBuilder {
	b.levels = append(b.levels, NewMemoryCache(maxEntries, cleanupInterval))

	return b
}

// WithNATS adds a NATS KV level.
func (b *CacheBuilder) WithNATS(config *NATSCacheConfig) *CacheBuilder {
	cache, err := NewNATSCache(config)
	if err != nil {
		if b.err == nil {
			b.err = err
		}

		return b
	}

	b.levels = append(b.levels, cache)

	return b
}

// WithPolicy sets the caching policy.
func (b *CacheBuilder) WithPolicy(policy *CachingPolicy) *CacheBuilder {
	b.policy = policy

	return b
}

// WithPromotionTTL sets the TTL used when a chain promotes entries.
func (b *CacheBuilder) WithPromotionTTL(ttl time.Duration) *CacheBuilder {
	b.ttl = ttl

	return b
}

// Build returns the assembled CacheManager.
func (b *CacheBuilder) Build() (*CacheManager, error) {
	if b.err != nil {
		return nil, b.err
	}

	var backend Cache

	switch len(b.levels) {
	case 0:
		backend = NewNoOpCache()
	case 1:
		backend = b.levels[0]
	default:
		backend = NewCacheChain(b.ttl, b.levels...)
	}

	return NewCacheManager(backend, b.policy), nil
}
