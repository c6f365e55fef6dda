package cacheinfra

import (
	"time"
)

type ttlEntry struct {
	storedAt time.Time
	value    any
}

// TTLStore is a timed key/value store. Entries older than the timeout are
// never returned: a lookup of an expired entry evicts it and reports a miss.
// Expired entries that nobody asks for are removed by a full sweep that runs
// at most once per check interval, piggybacking on lookups, so no background
// goroutine is needed.
//
// TTLStore does no locking. It is meant to be owned by a single logical
// caller; concurrent users must serialize access themselves.
type TTLStore struct {
	timeout       time.Duration
	checkInterval time.Duration

	store     map[string]ttlEntry
	lastSweep time.Time
	paused    bool

	now     func() time.Time
	onSweep func(removed int)
}

// TTLOption customizes a TTLStore.
type TTLOption func(*TTLStore)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) TTLOption {
	return func(s *TTLStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSweepHook registers a callback invoked after every full sweep with
// the number of entries removed.
func WithSweepHook(fn func(removed int)) TTLOption {
	return func(s *TTLStore) {
		s.onSweep = fn
	}
}

// NewTTLStore creates a TTL store using cfg.Timeout and cfg.CheckInterval.
func NewTTLStore(cfg Config, opts ...TTLOption) (*TTLStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &TTLStore{
		timeout:       cfg.Timeout,
		checkInterval: cfg.CheckInterval,
		store:         make(map[string]ttlEntry),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Set stores value under key with the current time. It does nothing while
// the store is paused.
func (s *TTLStore) Set(key string, value any) {
	if s.paused {
		return
	}
	s.store[key] = ttlEntry{storedAt: s.now(), value: value}
}

// Get returns the value stored under key. Expired entries are removed and
// reported as missing.
func (s *TTLStore) Get(key string) (any, bool) {
	if s.invalidate(key) {
		s.Remove(key)
		return nil, false
	}

	e, ok := s.store[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Observe is the callback form of Get: fn receives the value (nil on a
// miss) and whether it was found.
func (s *TTLStore) Observe(key string, fn func(value any, ok bool)) {
	v, ok := s.Get(key)
	if fn != nil {
		fn(v, ok)
	}
}

// Remove deletes the entry stored under key, if any.
func (s *TTLStore) Remove(key string) {
	delete(s.store, key)
}

// Clear drops every entry. The sweep schedule is left as is.
func (s *TTLStore) Clear() {
	s.store = make(map[string]ttlEntry)
}

// Len returns the number of entries held, including expired entries not
// yet swept.
func (s *TTLStore) Len() int {
	return len(s.store)
}

// Pause suppresses writes until Unpause is called. Reads keep working.
func (s *TTLStore) Pause() { s.paused = true }

// Unpause re-enables writes.
func (s *TTLStore) Unpause() { s.paused = false }

// Paused reports whether writes are suppressed.
func (s *TTLStore) Paused() bool { return s.paused }

// PauseFor runs fn with writes suppressed and re-enables writes afterwards,
// also when fn fails or panics. Calls must not be nested: the inner call
// re-enables writes for the outer one as well.
func (s *TTLStore) PauseFor(fn func() error) error {
	s.Pause()
	defer s.Unpause()

	return fn()
}

func (s *TTLStore) invalidate(key string) bool {
	s.checkForInvalids()

	e, ok := s.store[key]
	if !ok {
		return false
	}
	return s.timedOut(e.storedAt)
}

// checkForInvalids removes every expired entry, but only once the check
// interval has elapsed since the previous sweep. The first call starts the
// interval.
func (s *TTLStore) checkForInvalids() {
	now := s.now()

	if s.lastSweep.IsZero() {
		s.lastSweep = now
	}

	if now.Sub(s.lastSweep) <= s.checkInterval {
		return
	}

	removed := 0
	for k, e := range s.store {
		if s.timedOut(e.storedAt) {
			delete(s.store, k)
			removed++
		}
	}
	s.lastSweep = now

	if s.onSweep != nil {
		s.onSweep(removed)
	}
}

func (s *TTLStore) timedOut(storedAt time.Time) bool {
	return s.now().Sub(storedAt) > s.timeout
}
