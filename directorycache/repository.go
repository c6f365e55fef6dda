package directorycache

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-directory-cache/cache"
	"github.com/goliatone/go-directory-cache/filter"
)

const distinguishedName = "distinguishedName"

// Repository finds, caches and creates the records of one Type.
type Repository struct {
	manager *Manager
	typ     Type
	keys    cache.KeySerializer

	mu    sync.RWMutex
	store cache.Store
}

func newRepository(m *Manager, t Type) *Repository {
	return &Repository{
		manager: m,
		typ:     t,
		keys:    cache.NewDefaultKeySerializer(),
	}
}

// Type returns the record type served by the repository.
func (r *Repository) Type() Type { return r.typ }

// Find runs a search for the specifier. First returns at most one record.
func (r *Repository) Find(ctx context.Context, spec Specifier, where filter.Where, attributes ...string) ([]*Record, error) {
	return r.Query().For(spec).Where(where).Includes(attributes...).Call(ctx)
}

// First returns the first record matching where, or nil when nothing
// matches.
func (r *Repository) First(ctx context.Context, where filter.Where, attributes ...string) (*Record, error) {
	records, err := r.Find(ctx, First, where, attributes...)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[0], nil
}

// All returns every record matching where.
func (r *Repository) All(ctx context.Context, where filter.Where, attributes ...string) ([]*Record, error) {
	return r.Find(ctx, All, where, attributes...)
}

// Query starts a query builder rooted at the configured search base.
func (r *Repository) Query() *Query {
	return newQuery(r)
}

// New returns a record that does not exist in the directory yet. Values are
// encoded as if set one by one.
func (r *Repository) New(ctx context.Context, attributes map[string]any) (*Record, error) {
	rec := newRecord(r, nil)
	for _, name := range sortedKeys(attributes) {
		if err := rec.Set(ctx, name, attributes[name]); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// Create adds an entry with the given attributes, merged with the type's
// required attributes, and returns it as read back from the directory.
func (r *Repository) Create(ctx context.Context, dn string, attributes map[string]any) (*Record, error) {
	if strings.TrimSpace(dn) == "" {
		return nil, validationError("create: distinguished name is required")
	}
	if attributes == nil {
		return nil, validationError("create: attributes are required")
	}

	wire, err := r.encodeAll(ctx, attributes)
	if err != nil {
		return nil, err
	}
	for name, values := range r.typ.RequiredAttributes {
		deleteFold(wire, name)
		wire[name] = append([]string(nil), values...)
	}

	err = r.manager.dir.Add(ctx, dn, wire)
	r.manager.metrics.RecordWrite(r.typ.Name, "add", err)
	if err != nil {
		r.manager.logger.Warnf("create %s %s failed: %v", r.typ.Name, dn, err)
		return nil, remoteFailure(err, "add", dn)
	}

	return r.First(ctx, filter.Where{distinguishedName: dn})
}

func (r *Repository) encodeAll(ctx context.Context, attributes map[string]any) (map[string][]string, error) {
	wire := make(map[string][]string, len(attributes))
	for name, value := range attributes {
		encoded, err := r.manager.registry.Encode(ctx, r.typ.Name, name, value)
		if err != nil {
			return nil, err
		}
		if values := wireValues(encoded); len(values) > 0 {
			wire[name] = values
		}
	}
	return wire, nil
}

// EnableCache turns caching on. Without options the manager's cache
// settings are used. Enabling an enabled cache keeps the current store.
func (r *Repository) EnableCache(opts ...cache.Config) error {
	if r.Caching() {
		return nil
	}

	cfg := r.manager.settings.Cache
	if len(opts) > 0 {
		cfg = opts[0]
	}

	store, err := cache.NewStore(cfg)
	if err != nil {
		return validationError("invalid cache options", err)
	}
	r.UseCache(store)
	return nil
}

// UseCache installs store as the record cache, replacing any current one.
func (r *Repository) UseCache(store cache.Store) {
	r.mu.Lock()
	r.store = store
	r.mu.Unlock()
}

// DisableCache clears and drops the cache.
func (r *Repository) DisableCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.store != nil {
		r.store.Clear()
	}
	r.store = nil
}

// ClearCache empties the cache, if any.
func (r *Repository) ClearCache() {
	if store := r.Cache(); store != nil {
		store.Clear()
	}
}

// Caching reports whether caching is enabled.
func (r *Repository) Caching() bool {
	return r.Cache() != nil
}

// Cache returns the current store, or nil when caching is disabled.
func (r *Repository) Cache() cache.Store {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store
}

// Uncached runs fn without writing to the cache. Reads still use it.
func (r *Repository) Uncached(fn func() error) error {
	store := r.Cache()
	if store == nil {
		return fn()
	}
	return store.PauseFor(fn)
}

// cached returns the record cached under dn if it is acceptable for this
// repository. Abstract types look through the caches of every other type.
func (r *Repository) cached(dn string) (*Record, bool) {
	if !r.typ.Abstract {
		return r.cachedLocal(dn)
	}

	for _, repo := range r.manager.Repositories() {
		if repo == r {
			continue
		}
		if rec, ok := repo.cachedLocal(dn); ok {
			return rec, true
		}
	}
	return nil, false
}

func (r *Repository) cachedLocal(dn string) (*Record, bool) {
	store := r.Cache()
	if store == nil {
		return nil, false
	}

	rec, ok := cache.GetAs[*Record](store, r.keys.SerializeKey(dn))
	if !ok || !r.accepts(rec) {
		return nil, false
	}
	return rec, true
}

// accepts reports whether a record may be returned for this type.
func (r *Repository) accepts(rec *Record) bool {
	return r.typ.Abstract || rec.Type().Name == r.typ.Name
}

func (r *Repository) remember(rec *Record) {
	if r.typ.Abstract || rec == nil || rec.IsNew() {
		return
	}
	store := r.Cache()
	if store == nil {
		return
	}
	if store.Paused() {
		return
	}
	store.Set(r.keys.SerializeKey(rec.DN()), rec)
	r.manager.metrics.RecordCacheStore(r.typ.Name)
}

func (r *Repository) forget(dn string) {
	if store := r.Cache(); store != nil {
		store.Remove(r.keys.SerializeKey(dn))
	}
}

// attributeList merges default, configured and requested attributes,
// dropping case-insensitive duplicates. Nil means every attribute.
func (r *Repository) attributeList(requested []string) []string {
	lists := [][]string{r.typ.DefaultAttributes, r.manager.configAttributes(r.typ.Tag), requested}
	return mergeAttributes(lists...)
}

func mergeAttributes(lists ...[]string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, list := range lists {
		for _, a := range list {
			key := strings.ToLower(a)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func deleteFold[V any](m map[string]V, name string) {
	for k := range m {
		if strings.EqualFold(k, name) {
			delete(m, k)
		}
	}
}
