package directorycache

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-directory-cache/cache"
	"github.com/goliatone/go-directory-cache/codec"
	"github.com/goliatone/go-directory-cache/directory"
	"github.com/goliatone/go-directory-cache/filter"
	"github.com/goliatone/go-directory-cache/internal/log"
	"github.com/goliatone/go-directory-cache/internal/metrics"
)

// make sure Manager implements the codec.Resolver interface.
var _ codec.Resolver = (*Manager)(nil)

// Settings is the configuration a Manager is built from.
type Settings struct {
	// Base is the default search root.
	Base string
	// Attributes lists extra attributes to fetch per type tag.
	Attributes map[string][]string
	// Cache holds the options used when caching is enabled without explicit
	// options.
	Cache cache.Config
	// CacheEnabled enables caching for every type at construction.
	CacheEnabled bool
}

// DefaultSettings returns settings with the default cache options.
func DefaultSettings() Settings {
	return Settings{
		Attributes: map[string][]string{},
		Cache:      cache.DefaultConfig(),
	}
}

// Manager owns one Repository per record type, the codec registry shared by
// all of them and the directory they search.
type Manager struct {
	dir      directory.Directory
	settings Settings
	registry *codec.Registry
	fields   codec.Fields
	logger   log.Logger
	metrics  *metrics.Metrics

	mu    sync.RWMutex
	repos map[string]*Repository
	order []string
}

// Option customizes a Manager.
type Option func(*Manager)

// WithLogger sets the logger used by finders and writes.
func WithLogger(l log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics records cache and search activity.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// WithCodecFields overlays extra attribute codecs on the default table.
func WithCodecFields(fields codec.Fields) Option {
	return func(m *Manager) {
		m.fields = m.fields.Merge(fields)
	}
}

// NewManager registers the predefined record types against dir.
func NewManager(dir directory.Directory, settings Settings, opts ...Option) (*Manager, error) {
	if dir == nil {
		return nil, validationError("directory is required")
	}
	if settings.Attributes == nil {
		settings.Attributes = map[string][]string{}
	}
	if settings.Cache == (cache.Config{}) {
		settings.Cache = cache.DefaultConfig()
	}
	if err := settings.Cache.Validate(); err != nil {
		return nil, validationError("invalid cache settings", err)
	}

	m := &Manager{
		dir:      dir,
		settings: settings,
		fields:   codec.DefaultFields(),
		logger:   log.Nop(),
		repos:    map[string]*Repository{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.registry = codec.NewRegistry(m.fields, m)

	for _, t := range DefaultTypes() {
		if _, err := m.RegisterType(t); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RegisterType adds a record type and returns its repository. Registering
// a name twice replaces the earlier repository.
func (m *Manager) RegisterType(t Type) (*Repository, error) {
	if strings.TrimSpace(t.Name) == "" {
		return nil, validationError("record type name is required")
	}
	if t.Tag == "" {
		t.Tag = strings.ToLower(t.Name)
	}
	if t.Filter == nil {
		t.Filter = filter.MatchAny
	}

	repo := newRepository(m, t)
	if m.settings.CacheEnabled {
		if err := repo.EnableCache(); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	if _, exists := m.repos[t.Name]; !exists {
		m.order = append(m.order, t.Name)
	}
	m.repos[t.Name] = repo
	m.mu.Unlock()

	return repo, nil
}

// Repository returns the repository registered under name.
func (m *Manager) Repository(name string) (*Repository, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	repo, ok := m.repos[name]
	if !ok {
		return nil, withDetail(ErrUnknownType, "%s", name)
	}
	return repo, nil
}

func (m *Manager) mustRepository(name string) *Repository {
	repo, err := m.Repository(name)
	if err != nil {
		panic(err)
	}
	return repo
}

// Base returns the repository of the abstract type matching any entry.
func (m *Manager) Base() *Repository { return m.mustRepository(codec.TypeBase) }

// Users returns the user repository.
func (m *Manager) Users() *Repository { return m.mustRepository(codec.TypeUser) }

// Groups returns the group repository.
func (m *Manager) Groups() *Repository { return m.mustRepository(codec.TypeGroup) }

// Computers returns the computer repository.
func (m *Manager) Computers() *Repository { return m.mustRepository(codec.TypeComputer) }

// Repositories returns every repository in registration order.
func (m *Manager) Repositories() []*Repository {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Repository, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.repos[name])
	}
	return out
}

// EnableCache enables caching for every type with the configured options.
func (m *Manager) EnableCache() error {
	for _, repo := range m.Repositories() {
		if err := repo.EnableCache(); err != nil {
			return err
		}
	}
	return nil
}

// DisableCache clears and drops every cache.
func (m *Manager) DisableCache() {
	for _, repo := range m.Repositories() {
		repo.DisableCache()
	}
}

// ClearCache empties every cache.
func (m *Manager) ClearCache() {
	for _, repo := range m.Repositories() {
		repo.ClearCache()
	}
}

// Directory returns the directory searched by the manager.
func (m *Manager) Directory() directory.Directory { return m.dir }

// Registry returns the codec registry shared by all record types.
func (m *Manager) Registry() *codec.Registry { return m.registry }

// Settings returns a copy of the settings.
func (m *Manager) Settings() Settings { return m.settings }

// Resolve implements codec.Resolver by looking the names up in each of the
// given types. Names matching none of them are dropped.
func (m *Manager) Resolve(ctx context.Context, dns []string, types ...string) ([]codec.Identified, error) {
	out := []codec.Identified{}
	if len(dns) == 0 {
		return out, nil
	}

	for _, name := range types {
		repo, err := m.Repository(name)
		if err != nil {
			return nil, err
		}
		records, err := repo.All(ctx, filter.Where{distinguishedName: dns})
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Manager) configAttributes(tag string) []string {
	for k, v := range m.settings.Attributes {
		if strings.EqualFold(k, tag) {
			return v
		}
	}
	return nil
}
