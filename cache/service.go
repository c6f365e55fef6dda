package cache

import "github.com/goliatone/go-directory-cache/internal/cacheinfra"

// Interface assertions for the bundled backends.
var (
	_ Store = (*cacheinfra.TTLStore)(nil)
	_ Store = (*cacheinfra.SturdycStore)(nil)
)

// KeySerializer turns a record identifier into the key used by a Store.
// It is responsible for producing the same key for every spelling of the
// same identifier.
type KeySerializer interface {
	SerializeKey(identifier string) string
}

// Store is a timed key/value store holding decoded records.
//
// Set is a no-op while the store is paused; reads keep working. Expired
// entries are never returned. PauseFor is a scoped, non-reentrant toggle:
// nesting calls re-enables writes for the outer scope when the inner one
// returns.
type Store interface {
	Set(key string, value any)
	Get(key string) (any, bool)
	Observe(key string, fn func(value any, ok bool))
	Remove(key string)
	Clear()
	Len() int

	Pause()
	Unpause()
	Paused() bool
	PauseFor(fn func() error) error
}

// GetAs is a type-safe wrapper around Store.Get. A value of another type is
// reported as a miss.
func GetAs[T any](store Store, key string) (T, bool) {
	var zero T
	if store == nil {
		return zero, false
	}

	v, ok := store.Get(key)
	if !ok || v == nil {
		return zero, false
	}

	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
