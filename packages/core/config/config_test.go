package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/abdul-hamid-achik/pinga/packages/core/parser"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	assert.Equal(t, time.Duration(0), c.GetTimeout())
	assert.False(t, c.GetFollowRedirects())
	assert.Equal(t, 10, c.MaxRedirects)
	assert.True(t, c.GetValidateSSL())
	assert.False(t, c.GetNoColor())
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, parser.DefaultMaxBodyTokens, c.MaxBodyTokens)
	assert.NoError(t, c.Validate())
}

func TestGetters_NilPointers(t *testing.T) {
	c := &Config{}

	assert.False(t, c.GetFollowRedirects())
	assert.True(t, c.GetValidateSSL())
	assert.False(t, c.GetNoColor())
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	content := `
timeout: 2s
follow_redirects: true
max_redirects: 3
validate_ssl: false
proxy: http://proxy.local:3128
headers:
  User-Agent: pinga-test
  Accept: application/json
log_level: debug
max_body_tokens: 512
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, c.GetTimeout())
	assert.True(t, c.GetFollowRedirects())
	assert.Equal(t, 3, c.MaxRedirects)
	assert.False(t, c.GetValidateSSL())
	assert.Equal(t, "http://proxy.local:3128", c.Proxy)
	assert.Equal(t, map[string]string{"User-Agent": "pinga-test", "Accept": "application/json"}, c.Headers)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 512, c.MaxBodyTokens)
	assert.False(t, c.GetNoColor())
	assert.Equal(t, path, c.Source)
}

func TestLoadConfig_PartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: 1500\n"), 0644))

	c, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 1500*time.Millisecond, c.GetTimeout())
	assert.Equal(t, DefaultMaxRedirects, c.MaxRedirects)
	assert.True(t, c.GetValidateSSL())
	assert.Equal(t, DefaultLogLevel, c.LogLevel)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("timeout: soon\n"), 0644))
	_, err = LoadConfig(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid duration "soon"`)
}

func TestFindAndLoadConfig(t *testing.T) {
	t.Run("defaults when absent", func(t *testing.T) {
		c, err := FindAndLoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), c)
	})

	t.Run("first name wins", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "pinga.yaml"), []byte("max_redirects: 1\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".pinga.yml"), []byte("max_redirects: 2\n"), 0644))

		c, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, 2, c.MaxRedirects)
	})
}

func TestApplyEnv(t *testing.T) {
	c := DefaultConfig()
	err := c.ApplyEnv(map[string]string{
		"TIMEOUT":          "250ms",
		"FOLLOW_REDIRECTS": "true",
		"MAX_REDIRECTS":    "4",
		"VALIDATE_SSL":     "0",
		"PROXY":            "socks5://127.0.0.1:1080",
		"LOG_LEVEL":        "info",
		"NO_COLOR":         "1",
		"UNRELATED":        "x",
	})
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, c.GetTimeout())
	assert.True(t, c.GetFollowRedirects())
	assert.Equal(t, 4, c.MaxRedirects)
	assert.False(t, c.GetValidateSSL())
	assert.Equal(t, "socks5://127.0.0.1:1080", c.Proxy)
	assert.Equal(t, "info", c.LogLevel)
	assert.True(t, c.GetNoColor())
}

func TestApplyEnv_Errors(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"TIMEOUT", "later"},
		{"FOLLOW_REDIRECTS", "sometimes"},
		{"MAX_REDIRECTS", "many"},
		{"VALIDATE_SSL", "maybe"},
		{"NO_COLOR", "grey"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := DefaultConfig().ApplyEnv(map[string]string{tt.key: tt.value})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "PINGA_"+tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"negative timeout", func(c *Config) { c.Timeout = Duration(-time.Second) }, "timeout"},
		{"negative redirects", func(c *Config) { c.MaxRedirects = -1 }, "max_redirects"},
		{"negative body tokens", func(c *Config) { c.MaxBodyTokens = -1 }, "max_body_tokens"},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	c := DefaultConfig()
	c.LogLevel = "DEBUG"
	assert.NoError(t, c.Validate())
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
	}{
		{"0", 0},
		{"1500", 1500 * time.Millisecond},
		{"2s", 2 * time.Second},
		{" 1m30s ", 90 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseDuration(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	c := DefaultConfig()
	c.MaxRedirects = -1
	c.LogLevel = "loud"

	err := c.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
}
