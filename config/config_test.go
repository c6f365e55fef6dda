package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-directory-cache/cache"
)

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	assert.Equal(t, "ldap://localhost:389", settings.Server.URL)
	assert.True(t, settings.Cache.Enabled)
	assert.Equal(t, 300, settings.Cache.Timeout)
	assert.Equal(t, 900, settings.Cache.CheckInterval)
	assert.Equal(t, cache.BackendTTL, settings.Cache.Backend)
	assert.Equal(t, "info", settings.Logging.Level)

	// defaults lack a search base
	assert.Error(t, settings.Validate())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(PasswordEnv, "")

	settings, err := LoadConfig(filepath.Join("testdata", "adictl.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "ldaps://dc1.example.org:636", settings.Server.URL)
	assert.Equal(t, "DC=example,DC=org", settings.Server.Base)
	assert.Equal(t, "changeme", settings.Server.Password)
	assert.Equal(t, 10, settings.Server.DialTimeout, "missing keys keep their defaults")
	assert.Equal(t, []string{"department", "title"}, settings.Attributes["user"])
	assert.Equal(t, "debug", settings.Logging.Level)

	cfg := settings.CacheConfig()
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.Equal(t, 2*time.Minute, cfg.CheckInterval)
	assert.Equal(t, cache.BackendSturdyc, cfg.Backend)
	assert.Equal(t, 500, cfg.Capacity)
	assert.Equal(t, cache.DefaultConfig().NumShards, cfg.NumShards)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParse_PasswordFromEnvironment(t *testing.T) {
	t.Setenv(PasswordEnv, "from-env")

	settings, err := Parse([]byte("server: {url: 'ldap://dc1:389', base: 'DC=x', bind_dn: 'CN=svc,DC=x'}"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", settings.Server.Password)
}

func TestParse_Invalid(t *testing.T) {
	t.Setenv(PasswordEnv, "")

	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "server: ["},
		{"bad url scheme", "server: {url: 'http://dc1', base: 'DC=x'}"},
		{"missing base", "server: {url: 'ldap://dc1'}"},
		{"bind without password", "server: {url: 'ldap://dc1', base: 'DC=x', bind_dn: 'CN=svc'}"},
		{"negative timeout", "server: {url: 'ldap://dc1', base: 'DC=x'}\ncache: {timeout: -1}"},
		{"unknown backend", "server: {url: 'ldap://dc1', base: 'DC=x'}\ncache: {backend: redis}"},
		{"unknown level", "server: {url: 'ldap://dc1', base: 'DC=x'}\nlogging: {level: loud}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv(PasswordEnv, "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	settings := DefaultSettings()
	settings.Server.Base = "DC=example,DC=org"
	settings.Attributes["computer"] = []string{"operatingSystem"}

	require.NoError(t, SaveConfig(settings, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestDefaultConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".config", "adictl", "config.yaml"), DefaultConfigPath())
}
