package cache

import (
	"time"

	"github.com/goliatone/go-directory-cache/internal/cacheinfra"
)

// Backend names accepted by Config.Backend.
const (
	BackendTTL     = cacheinfra.BackendTTL
	BackendSturdyc = cacheinfra.BackendSturdyc
)

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Backend            string
	Timeout            time.Duration
	CheckInterval      time.Duration
	Capacity           int
	NumShards          int
	EvictionPercentage int
}

// DefaultConfig returns a Config with a 300 second timeout and a 900 second
// check interval on the TTL backend.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// WithTimeouts returns a copy of c using the given timeout and check
// interval, both in seconds.
func (c Config) WithTimeouts(timeoutSeconds, checkIntervalSeconds int) Config {
	c.Timeout = time.Duration(timeoutSeconds) * time.Second
	c.CheckInterval = time.Duration(checkIntervalSeconds) * time.Second
	return c
}

// NewStore constructs the store selected by cfg.Backend.
func NewStore(cfg Config) (Store, error) {
	internal := cfg.toInternal()

	if internal.Backend == BackendSturdyc {
		store, err := cacheinfra.NewSturdycStore(internal)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	store, err := cacheinfra.NewTTLStore(internal)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewTTLStoreWithClock constructs a TTL store reading time from now. It
// exists for tests that need to move time forward.
func NewTTLStoreWithClock(cfg Config, now func() time.Time) (Store, error) {
	store, err := cacheinfra.NewTTLStore(cfg.toInternal(), cacheinfra.WithClock(now))
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Backend:            c.Backend,
		Timeout:            c.Timeout,
		CheckInterval:      c.CheckInterval,
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		EvictionPercentage: c.EvictionPercentage,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Backend:            cfg.Backend,
		Timeout:            cfg.Timeout,
		CheckInterval:      cfg.CheckInterval,
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		EvictionPercentage: cfg.EvictionPercentage,
	}
}
