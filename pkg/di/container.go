package di

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-directory-cache/config"
	"github.com/goliatone/go-directory-cache/directory"
	"github.com/goliatone/go-directory-cache/directorycache"
	"github.com/goliatone/go-directory-cache/internal/ldapinfra"
	"github.com/goliatone/go-directory-cache/internal/log"
	"github.com/goliatone/go-directory-cache/internal/metrics"
)

// Container wires the settings, the directory connection and the record
// manager together. It owns the directory and closes it on Close.
type Container struct {
	settings   *config.Settings
	logger     log.Logger
	registerer prometheus.Registerer
	metrics    *metrics.Metrics
	dir        directory.Directory
	manager    *directorycache.Manager
}

// Option customizes a Container.
type Option func(*Container)

// WithDirectory replaces the LDAP adapter, typically with an in-memory
// directory in tests.
func WithDirectory(dir directory.Directory) Option {
	return func(c *Container) {
		c.dir = dir
	}
}

// WithLogger replaces the logger built from the logging settings.
func WithLogger(l log.Logger) Option {
	return func(c *Container) {
		c.logger = l
	}
}

// WithRegisterer registers the metrics on reg. Without it the metrics are
// recorded but not registered.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Container) {
		c.registerer = reg
	}
}

// NewContainer validates settings and builds the manager.
func NewContainer(settings *config.Settings, opts ...Option) (*Container, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	c := &Container{settings: settings}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = log.NewWithOptions("adi", log.Options{
			Level:      settings.Logging.Level,
			Suppressed: settings.Logging.Suppressed,
		})
	}
	c.metrics = metrics.New(c.registerer)
	if c.dir == nil {
		c.dir = NewLDAPDirectory(settings.Server, c.logger)
	}

	manager, err := directorycache.NewManager(c.dir, ManagerSettings(settings),
		directorycache.WithLogger(c.logger),
		directorycache.WithMetrics(c.metrics),
	)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.manager = manager

	return c, nil
}

// NewContainerFromFile loads the settings file at path and builds a
// container from it.
func NewContainerFromFile(path string, opts ...Option) (*Container, error) {
	settings, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return NewContainer(settings, opts...)
}

// NewLDAPDirectory returns the go-ldap adapter for server. It does not
// connect until first used.
func NewLDAPDirectory(server config.Server, logger log.Logger) directory.Directory {
	return ldapinfra.New(LDAPConfig(server), ldapinfra.WithLogger(logger))
}

// LDAPConfig converts the server section into adapter settings.
func LDAPConfig(server config.Server) ldapinfra.Config {
	return ldapinfra.Config{
		URL:                server.URL,
		Base:               server.Base,
		BindDN:             server.BindDN,
		Password:           server.Password,
		StartTLS:           server.StartTLS,
		InsecureSkipVerify: server.InsecureSkipVerify,
		DialTimeout:        time.Duration(server.DialTimeout) * time.Second,
		PageSize:           server.PageSize,
	}
}

// ManagerSettings converts the settings file into manager settings.
func ManagerSettings(settings *config.Settings) directorycache.Settings {
	attributes := make(map[string][]string, len(settings.Attributes))
	for tag, list := range settings.Attributes {
		attributes[tag] = append([]string(nil), list...)
	}
	return directorycache.Settings{
		Base:         settings.Server.Base,
		Attributes:   attributes,
		Cache:        settings.CacheConfig(),
		CacheEnabled: settings.Cache.Enabled,
	}
}

// Manager returns the record manager.
func (c *Container) Manager() *directorycache.Manager { return c.manager }

// Directory returns the directory the manager searches.
func (c *Container) Directory() directory.Directory { return c.dir }

// Settings returns the settings the container was built from.
func (c *Container) Settings() *config.Settings { return c.settings }

// Logger returns the shared logger.
func (c *Container) Logger() log.Logger { return c.logger }

// Metrics returns the metrics recorded by the manager.
func (c *Container) Metrics() *metrics.Metrics { return c.metrics }

// Close releases the directory connection, if it holds one.
func (c *Container) Close() {
	if closer, ok := c.dir.(interface{ Close() }); ok {
		closer.Close()
	}
}
