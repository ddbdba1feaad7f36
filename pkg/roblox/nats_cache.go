package roblox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/bloxkit/rbx-client/internal/constants"
)

// ErrNATSURLRequired indicates a NATS cache was configured without a
// server URL.
var ErrNATSURLRequired = errors.New("nats cache requires a server URL")

// NATSCache is a Cache backed by a NATS JetStream key-value bucket,
// letting multiple processes share one response cache.
//
// Entry TTL is bucket-level in JetStream KV, so the per-call ttl
// argument is ignored; configure NATSCacheConfig.TTL instead.
type NATSCache struct {
	conn   *nats.Conn
	bucket nats.KeyValue
}

// NewNATSCache connects to the NATS server and binds (or creates) the
// configured bucket.
func NewNATSCache(config *NATSCacheConfig) (*NATSCache, error) {
	if config == nil || config.URL == "" {
		return nil, ErrNATSURLRequired
	}

	bucket := config.Bucket
	if bucket == "" {
		bucket = "rbx-response-cache"
	}

	opts := []nats.Option{
		nats.Name("rbx-client cache"),
		nats.Timeout(constants.ShortHTTPTimeout),
		nats.MaxReconnects(constants.LowRetryMax),
	}

	if config.Credentials != "" {
		opts = append(opts, nats.UserCredentials(config.Credentials))
	}

	conn, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("opening JetStream context: %w", err)
	}

	kv, err := js.KeyValue(bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		ttl := config.TTL
		if ttl <= 0 {
			ttl = constants.DefaultCacheTTL
		}

		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket: bucket,
			TTL:    ttl,
		})
	}

	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("binding KV bucket %q: %w", bucket, err)
	}

	return &NATSCache{conn: conn, bucket: kv}, nil
}

// Get implements Cache.
func (c *NATSCache) Get(_ context.Context, key string) ([]byte, bool) {
	entry, err := c.bucket.Get(key)
	if err != nil {
		return nil, false
	}

	return entry.Value(), true
}

// Set implements Cache. The ttl argument is ignored; see the type
// comment.
func (c *NATSCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if _, err := c.bucket.Put(key, value); err != nil {
		return fmt.Errorf("storing key %q: %w", key, err)
	}

	return nil
}

// Delete implements Cache.
func (c *NATSCache) Delete(_ context.Context, key string) error {
	err := c.bucket.Delete(key)
	if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}

	return nil
}

// Clear implements Cache.
func (c *NATSCache) Clear(_ context.Context) error {
	keys, err := c.bucket.Keys()
	if err != nil {
		if errors.Is(err, nats.ErrNoKeysFound) {
			return nil
		}

		return fmt.Errorf("listing keys: %w", err)
	}

	var errs []error

	for _, key := range keys {
		if err := c.bucket.Purge(key); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Close implements Cache.
func (c *NATSCache) Close() error {
	c.conn.Close()

	return nil
}
