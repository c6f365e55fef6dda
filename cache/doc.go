// Package cache provides the record cache used by directory finders.
//
// # Overview
//
// This package exports two main interfaces and their default implementations:
//
//   - Store: a timed key/value store holding decoded records
//   - KeySerializer: builds stable cache keys from record identifiers
//
// Two backends ship with the package. The TTL backend (the default) keeps
// entries in a plain map, evicts an expired entry when it is looked up and
// sweeps every expired entry at most once per check interval, while serving
// lookups. It does no locking. The sturdyc backend is sharded and safe for
// concurrent use; expiry is handled by sturdyc's background eviction.
//
// # Basic Usage
//
//	store, err := cache.NewStore(cache.DefaultConfig())
//	keys := cache.NewDefaultKeySerializer()
//
//	store.Set(keys.SerializeKey("CN=Jane,OU=Users,DC=example,DC=org"), record)
//	rec, ok := cache.GetAs[*Record](store, keys.SerializeKey("cn=jane,ou=users,dc=example,dc=org"))
//
// # Pausing writes
//
// PauseFor runs a function with writes suppressed, which lets a caller
// force fresh reads without polluting the cache:
//
//	err := store.PauseFor(func() error {
//		_, err := finder.All(ctx)
//		return err
//	})
//
// The toggle is not reentrant. A nested PauseFor re-enables writes for the
// enclosing call as soon as it returns.
//
// # Configuration
//
// DefaultConfig uses a 300 second timeout and a 900 second check interval,
// the same defaults the directory settings file falls back to.
package cache
