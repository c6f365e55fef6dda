// Package directorycache finds, caches and edits Active Directory records.
//
// A Manager owns one Repository per record type (Base, User, Group and
// Computer by default) and the codec registry they share. Repositories run
// searches through the directory.Directory they were built with and turn the
// entries into Records, which decode attribute values on read and collect
// changes until they are saved.
//
// # Basic Usage
//
//	m, err := directorycache.NewManager(dir, settings)
//	jane, err := m.Users().First(ctx, filter.Where{"sAMAccountName": "jdoe"})
//	groups, err := directorycache.AsUser(jane).Groups(ctx)
//
// # Caching
//
// Each concrete type keeps its own cache.Store, keyed by normalized
// distinguished name. A search is answered from the cache only when its
// conditions name nothing but distinguishedName and every requested name is
// cached; anything else goes to the directory and refreshes the cache with
// the results. The abstract Base type never stores records but looks through
// the caches of the other types.
//
// # Concurrency
//
// The default "ttl" cache backend is not safe for concurrent use. A manager
// whose repositories cache with it must be used from one goroutine, or
// callers must serialize access themselves. Set Settings.Cache.Backend to
// "sturdyc" to share a manager between goroutines. PauseFor and Uncached
// pause writes for every user of the cache, so they must not overlap.
//
// # Failures
//
// Reads never fail because the directory is unreachable: an offline
// directory or a failed search yields an empty result and a log line.
// Writes report remote failures (see IsRemoteFailure) and keep pending
// changes so that a Save can be retried. Misused query builders and invalid
// arguments are reported as validation errors (see IsValidationError).
package directorycache
