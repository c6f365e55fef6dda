package cacheinfra

import (
	"sync/atomic"

	"github.com/viccon/sturdyc"
)

// SturdycStore exposes a sharded sturdyc client through the same contract
// as TTLStore. Unlike TTLStore it is safe for concurrent use, and expired
// entries are evicted by sturdyc's background job every CheckInterval.
type SturdycStore struct {
	client *sturdyc.Client[any]
	paused atomic.Bool
}

// ToSturdycOptions converts the Config to sturdyc.Option slice.
// Capacity, NumShards, Timeout, and EvictionPercentage are passed directly
// to sturdyc.New() and are not included in the options.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.CheckInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.CheckInterval))
	}

	return options
}

// NewSturdycStore validates the configuration and initializes a sturdyc
// client with it.
func NewSturdycStore(cfg Config) (*SturdycStore, error) {
	cfg.Backend = BackendSturdyc
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.Timeout,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &SturdycStore{client: client}, nil
}

// Set stores value under key unless the store is paused.
func (s *SturdycStore) Set(key string, value any) {
	if s.paused.Load() {
		return
	}
	s.client.Set(key, value)
}

// Get returns the value stored under key.
func (s *SturdycStore) Get(key string) (any, bool) {
	return s.client.Get(key)
}

// Observe is the callback form of Get.
func (s *SturdycStore) Observe(key string, fn func(value any, ok bool)) {
	v, ok := s.Get(key)
	if fn != nil {
		fn(v, ok)
	}
}

// Remove deletes the entry stored under key.
func (s *SturdycStore) Remove(key string) {
	s.client.Delete(key)
}

// Clear removes all entries from the cache.
func (s *SturdycStore) Clear() {
	for _, key := range s.client.ScanKeys() {
		s.client.Delete(key)
	}
}

// Len returns the number of entries held.
func (s *SturdycStore) Len() int {
	return s.client.Size()
}

// Pause suppresses writes until Unpause is called.
func (s *SturdycStore) Pause() { s.paused.Store(true) }

// Unpause re-enables writes.
func (s *SturdycStore) Unpause() { s.paused.Store(false) }

// Paused reports whether writes are suppressed.
func (s *SturdycStore) Paused() bool { return s.paused.Load() }

// PauseFor runs fn with writes suppressed and re-enables writes afterwards.
// The flag is shared by every goroutine using the store, and calls must not
// be nested.
func (s *SturdycStore) PauseFor(fn func() error) error {
	s.Pause()
	defer s.Unpause()

	return fn()
}
