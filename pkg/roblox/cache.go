package roblox

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bloxkit/rbx-client/internal/constants"
)

// Cache stores serialized API responses keyed by request identity.
type Cache interface {
	// Get returns the cached value for key, if present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Close releases cache resources.
	Close() error
}

// CacheKey derives a stable cache key from request identity. Keys are
// hex digests so every backend (including NATS KV) accepts them.
func CacheKey(method, baseURL, path string, query url.Values) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s", method, baseURL, path, query.Encode())

	return hex.EncodeToString(h.Sum(nil))
}

type memoryCacheEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e *memoryCacheEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryCache is an in-process Cache with TTL expiry, a size cap, and
// a background cleanup goroutine.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]*memoryCacheEntry
	maxEntries int
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewMemoryCache creates a MemoryCache holding at most maxEntries
// entries, sweeping expired entries every cleanupInterval. Zero
// arguments use the defaults.
func NewMemoryCache(maxEntries int, cleanupInterval time.Duration) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = constants.DefaultCacheSize
	}

	if cleanupInterval <= 0 {
		cleanupInterval = constants.DefaultCacheTTL
	}

	c := &MemoryCache{
		entries:    make(map[string]*memoryCacheEntry),
		maxEntries: maxEntries,
		stop:       make(chan struct{}),
	}

	go c.cleanupLoop(cleanupInterval)

	return c
}

func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *MemoryCache) removeExpired() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if entry.expired(now) {
			delete(c.entries, key)
		}
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if entry.expired(time.Now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()

		return nil, false
	}

	return entry.value, true
}

// Set implements Cache. When the cache is full the entry closest to
// expiry is evicted.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := &memoryCacheEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOne()
	}

	c.entries[key] = entry

	return nil
}

func (c *MemoryCache) evictOne() {
	var (
		victim   string
		earliest time.Time
	)

	for key, entry := range c.entries {
		if victim == "" || (!entry.expiresAt.IsZero() && entry.expiresAt.Before(earliest)) {
			victim = key
			earliest = entry.expiresAt
		}
	}

	if victim != "" {
		delete(c.entries, victim)
	}
}

// Delete implements Cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)

	return nil
}

// Clear implements Cache.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*memoryCacheEntry)

	return nil
}

// Close implements Cache and stops the cleanup goroutine.
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })

	return nil
}

// Len returns the number of entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// NoOpCache is a Cache that stores nothing.
type NoOpCache struct{}

// NewNoOpCache creates a NoOpCache.
func NewNoOpCache() *NoOpCache { return &NoOpCache{} }

func (NoOpCache) Get(context.Context, string) ([]byte, bool)               { return nil, false }
func (NoOpCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NoOpCache) Delete(context.Context, string) error                     { return nil }
func (NoOpCache) Clear(context.Context) error                              { return nil }
func (NoOpCache) Close() error                                             { return nil }

// CachingPolicy decides which requests are cacheable and for how
// long.
type CachingPolicy struct {
	// DefaultTTL applies to paths without an override.
	DefaultTTL time.Duration

	// Methods lists cacheable HTTP methods. Empty means GET only.
	Methods []string

	// IncludePaths restricts caching to paths with these prefixes.
	// Empty means all paths.
	IncludePaths []string

	// ExcludePaths excludes paths with these prefixes.
	ExcludePaths []string

	// TTLOverrides maps path prefixes to specific TTLs.
	TTLOverrides map[string]time.Duration
}

// DefaultCachingPolicy caches GET responses briefly and never caches
// the session probe.
func DefaultCachingPolicy() *CachingPolicy {
	return &CachingPolicy{
		DefaultTTL:   constants.DefaultCacheTTL,
		ExcludePaths: []string{"/v1/users/authenticated"},
	}
}

// ShouldCache reports whether a request is cacheable under the
// policy.
func (p *CachingPolicy) ShouldCache(method, path string) bool {
	if p == nil {
		return false
	}

	methods := p.Methods
	if len(methods) == 0 {
		methods = []string{"GET"}
	}

	allowed := false

	for _, m := range methods {
		if strings.EqualFold(m, method) {
			allowed = true

			break
		}
	}

	if !allowed {
		return false
	}

	for _, prefix := range p.ExcludePaths {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}

	if len(p.IncludePaths) == 0 {
		return true
	}

	for _, prefix := range p.IncludePaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// TTLFor returns the TTL for a path.
func (p *CachingPolicy) TTLFor(path string) time.Duration {
	if p == nil {
		return 0
	}

	for prefix, ttl := range p.TTLOverrides {
		if strings.HasPrefix(path, prefix) {
			return ttl
		}
	}

	if p.DefaultTTL > 0 {
		return p.DefaultTTL
	}

	return constants.DefaultCacheTTL
}

// CachedResponse is the serialized form of a cached API response.
type CachedResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       []byte            `json:"body"`
	ETag       string            `json:"etag,omitempty"`
	CachedAt   time.Time         `json:"cachedAt"`
}

// CacheStats counts cache traffic.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
}

// HitRate returns the fraction of lookups served from cache.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// CacheManager layers response serialization, a caching policy, ETag
// tracking, and hit/miss statistics over a Cache backend.
type CacheManager struct {
	cache  Cache
	policy *CachingPolicy

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

// NewCacheManager creates a manager over the backend. A nil policy
// uses DefaultCachingPolicy.
func NewCacheManager(cache Cache, policy *CachingPolicy) *CacheManager {
	if policy == nil {
		policy = DefaultCachingPolicy()
	}

	return &CacheManager{cache: cache, policy: policy}
}

// Policy returns the caching policy.
func (m *CacheManager) Policy() *CachingPolicy {
	return m.policy
}

// GetResponse returns the cached response for key, if any.
func (m *CacheManager) GetResponse(ctx context.Context, key string) (*CachedResponse, bool) {
	raw, ok := m.cache.Get(ctx, key)
	if !ok {
		m.misses.Add(1)

		return nil, false
	}

	var resp CachedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		m.misses.Add(1)

		return nil, false
	}

	m.hits.Add(1)

	return &resp, true
}

// SetResponse stores a response under key using the policy TTL for
// path.
func (m *CacheManager) SetResponse(ctx context.Context, key, path string, resp *CachedResponse) error {
	resp.CachedAt = time.Now()

	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encoding cached response: %w", err)
	}

	if err := m.cache.Set(ctx, key, raw, m.policy.TTLFor(path)); err != nil {
		return fmt.Errorf("storing cached response: %w", err)
	}

	m.sets.Add(1)

	return nil
}

// ETagFor returns the ETag of the cached response for key, if any.
func (m *CacheManager) ETagFor(ctx context.Context, key string) string {
	resp, ok := m.GetResponse(ctx, key)
	if !ok {
		return ""
	}

	return resp.ETag
}

// Invalidate removes the cached response for key.
func (m *CacheManager) Invalidate(ctx context.Context, key string) error {
	return m.cache.Delete(ctx, key)
}

// Clear removes every cached response.
func (m *CacheManager) Clear(ctx context.Context) error {
	return m.cache.Clear(ctx)
}

// Stats returns a snapshot of the cache counters.
func (m *CacheManager) Stats() CacheStats {
	return CacheStats{
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
		Sets:   m.sets.Load(),
	}
}

// Close closes the backend.
func (m *CacheManager) Close() error {
	return m.cache.Close()
}
