package idempotency

import "time"

// config holds the configuration for Charger.
type config struct {
	ttl          time.Duration
	store        Store
	keyGenerator KeyGenerator
}

// Option configures a Charger.
type Option func(*config)

// WithTTL sets the cache TTL for completed charges.
//
// Only applies when using the default InMemoryStore. If WithStore is also
// specified, this option is ignored (configure TTL on your custom store
// instead).
//
// Default: 1 hour
func WithTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.ttl = ttl
	}
}

// WithStore sets a custom Store implementation.
//
// Use this for distributed cache backends like Redis or a database. When
// specified, WithTTL is ignored (configure TTL on your store).
func WithStore(store Store) Option {
	return func(c *config) {
		c.store = store
	}
}

// WithKeyGenerator sets the generator used when a caller supplies no
// request identifier. The default generates a random UUID per charge.
func WithKeyGenerator(gen KeyGenerator) Option {
	return func(c *config) {
		c.keyGenerator = gen
	}
}
