// Package config loads the YAML settings file shared by the CLI and the
// container.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-directory-cache/cache"
)

// PasswordEnv overrides server.password when set.
const PasswordEnv = "ADICTL_PASSWORD"

var ldapURL = regexp.MustCompile(`^ldaps?://[^\s/]+(:\d+)?/?$`)

// Settings represents the directory cache configuration.
type Settings struct {
	Server     Server              `yaml:"server"`
	Attributes map[string][]string `yaml:"attributes"`
	Cache      Cache               `yaml:"cache"`
	Logging    Logging             `yaml:"logging"`
}

// Server contains the directory connection settings.
type Server struct {
	URL                string `yaml:"url"`
	Base               string `yaml:"base"`
	BindDN             string `yaml:"bind_dn"`
	Password           string `yaml:"password"`
	StartTLS           bool   `yaml:"start_tls"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	// DialTimeout is in seconds.
	DialTimeout int    `yaml:"dial_timeout"`
	PageSize    uint32 `yaml:"page_size"`
}

// Cache contains the record cache settings. Durations are in seconds.
type Cache struct {
	Enabled            bool   `yaml:"enabled"`
	Timeout            int    `yaml:"timeout"`
	CheckInterval      int    `yaml:"check_interval"`
	Backend            string `yaml:"backend"`
	Capacity           int    `yaml:"capacity"`
	NumShards          int    `yaml:"num_shards"`
	EvictionPercentage int    `yaml:"eviction_percentage"`
}

// Logging contains logging configuration.
type Logging struct {
	Level      string `yaml:"level"`
	Suppressed bool   `yaml:"suppressed"`
}

// DefaultSettings returns the settings a missing key falls back to.
func DefaultSettings() *Settings {
	defaults := cache.DefaultConfig()
	return &Settings{
		Server: Server{
			URL:         "ldap://localhost:389",
			DialTimeout: 10,
		},
		Attributes: map[string][]string{},
		Cache: Cache{
			Enabled:            true,
			Timeout:            int(defaults.Timeout / time.Second),
			CheckInterval:      int(defaults.CheckInterval / time.Second),
			Backend:            defaults.Backend,
			Capacity:           defaults.Capacity,
			NumShards:          defaults.NumShards,
			EvictionPercentage: defaults.EvictionPercentage,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Validate checks the settings.
func (s *Settings) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Server),
		validation.Field(&s.Cache),
		validation.Field(&s.Logging),
	)
}

// Validate checks the connection settings.
func (s Server) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.URL, validation.Required, validation.Match(ldapURL).Error("must be an ldap:// or ldaps:// address")),
		validation.Field(&s.Base, validation.Required),
		validation.Field(&s.Password, validation.When(s.BindDN != "", validation.Required)),
		validation.Field(&s.DialTimeout, validation.Min(0)),
	)
}

// Validate checks the cache settings.
func (c Cache) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Timeout, validation.Min(0)),
		validation.Field(&c.CheckInterval, validation.Min(0)),
		validation.Field(&c.Backend, validation.In(cache.BackendTTL, cache.BackendSturdyc)),
	)
}

// Validate checks the logging settings.
func (l Logging) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "warning", "error")),
	)
}

// CacheConfig converts the cache section. Zero sizing values keep the
// cache defaults.
func (s *Settings) CacheConfig() cache.Config {
	cfg := cache.DefaultConfig().WithTimeouts(s.Cache.Timeout, s.Cache.CheckInterval)
	if s.Cache.Backend != "" {
		cfg.Backend = s.Cache.Backend
	}
	if s.Cache.Capacity > 0 {
		cfg.Capacity = s.Cache.Capacity
	}
	if s.Cache.NumShards > 0 {
		cfg.NumShards = s.Cache.NumShards
	}
	if s.Cache.EvictionPercentage > 0 {
		cfg.EvictionPercentage = s.Cache.EvictionPercentage
	}
	return cfg
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Settings, error) {
	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if settings.Attributes == nil {
		settings.Attributes = map[string][]string{}
	}
	if pw := os.Getenv(PasswordEnv); pw != "" {
		settings.Server.Password = pw
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return settings, nil
}

// LoadConfig loads configuration from the specified path.
func LoadConfig(configPath string) (*Settings, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// SaveConfig writes the settings with owner-only permissions, since they
// hold the bind password.
func SaveConfig(settings *Settings, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfigPath returns ~/.config/adictl/config.yaml, or a file in the
// working directory when there is no home directory.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(homeDir) == "" {
		return "./adictl.yaml"
	}
	return filepath.Join(homeDir, ".config", "adictl", "config.yaml")
}
