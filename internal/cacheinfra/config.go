package cacheinfra

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Backend names accepted by Config.Backend.
const (
	BackendTTL     = "ttl"
	BackendSturdyc = "sturdyc"
)

// Config holds the configuration shared by the cache backends.
type Config struct {
	// Backend selects the store implementation: "ttl" (default) or "sturdyc".
	Backend string

	// Timeout is how long an entry stays valid after it was stored.
	Timeout time.Duration

	// CheckInterval is the minimum time between two full sweeps of expired
	// entries. The TTL store only sweeps while serving lookups; the sturdyc
	// store maps it to its background eviction interval.
	CheckInterval time.Duration

	// Capacity defines the maximum number of entries held by the sturdyc
	// backend. Ignored by the TTL store, which is unbounded.
	Capacity int

	// NumShards determines the number of sturdyc shards.
	NumShards int

	// EvictionPercentage specifies what percentage of entries sturdyc evicts
	// when it reaches capacity. Must be between 1-100.
	EvictionPercentage int
}

// DefaultConfig returns a Config with a five minute timeout and a fifteen
// minute sweep interval.
func DefaultConfig() Config {
	return Config{
		Backend:            BackendTTL,
		Timeout:            300 * time.Second,
		CheckInterval:      900 * time.Second,
		Capacity:           10000,
		NumShards:          256,
		EvictionPercentage: 10,
	}
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	sturdyc := c.Backend == BackendSturdyc

	return validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.In(BackendTTL, BackendSturdyc, "")),
		validation.Field(&c.Timeout,
			validation.Min(time.Duration(0)),
			validation.When(sturdyc, validation.Required),
		),
		validation.Field(&c.CheckInterval, validation.Min(time.Duration(0))),
		validation.Field(&c.Capacity, validation.When(sturdyc, validation.Required, validation.Min(1))),
		validation.Field(&c.NumShards, validation.When(sturdyc, validation.Required, validation.Min(1))),
		validation.Field(&c.EvictionPercentage, validation.When(sturdyc, validation.Required, validation.Min(1), validation.Max(100))),
	)
}
