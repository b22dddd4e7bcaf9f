package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// SettingsEnv names the environment variable pointing at a settings file.
const SettingsEnv = "PINGA_SETTINGS"

// Config holds pinga's tool settings. It is separate from the request config
// passed on the command line.
type Config struct {
	Timeout         Duration          `yaml:"timeout,omitempty"`
	FollowRedirects *bool             `yaml:"follow_redirects,omitempty"`
	MaxRedirects    int               `yaml:"max_redirects,omitempty"`
	ValidateSSL     *bool             `yaml:"validate_ssl,omitempty"`
	Proxy           string            `yaml:"proxy,omitempty"`
	Headers         map[string]string `yaml:"headers,omitempty"` // sent unless the request sets the same header
	LogLevel        string            `yaml:"log_level,omitempty"`
	NoColor         *bool             `yaml:"no_color,omitempty"`
	MaxBodyTokens   int               `yaml:"max_body_tokens,omitempty"`

	// Source is the file the settings came from, empty for the defaults.
	Source string `yaml:"-"`
}

// Duration is a time.Duration read from YAML. Strings use time.ParseDuration
// syntax; bare integers are milliseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	v, err := ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(v)
	return nil
}

// ParseDuration accepts "1500ms", "2s" and plain millisecond counts like "1500".
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

func (c *Config) GetTimeout() time.Duration {
	return time.Duration(c.Timeout)
}

// GetFollowRedirects returns the follow redirects setting, defaulting to false
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, false)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible settings file names
var ConfigFilenames = []string{
	".pinga.yaml",
	".pinga.yml",
	"pinga.yaml",
}

// LoadConfig loads settings from path, or searches the working directory
// when path is empty.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	return FindAndLoadConfig(".")
}

// FindAndLoadConfig loads the first settings file found in dir, or the
// defaults when there is none.
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	config.Source = path

	return config, nil
}

// ApplyEnv overrides settings from environment variables, keyed without the
// PINGA_ prefix as returned by env.LoadSystemEnv.
func (c *Config) ApplyEnv(vars map[string]string) error {
	if v, ok := vars["TIMEOUT"]; ok {
		d, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PINGA_TIMEOUT: %w", err)
		}
		c.Timeout = Duration(d)
	}
	if v, ok := vars["FOLLOW_REDIRECTS"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PINGA_FOLLOW_REDIRECTS: invalid boolean %q", v)
		}
		c.FollowRedirects = &b
	}
	if v, ok := vars["MAX_REDIRECTS"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PINGA_MAX_REDIRECTS: invalid number %q", v)
		}
		c.MaxRedirects = n
	}
	if v, ok := vars["VALIDATE_SSL"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PINGA_VALIDATE_SSL: invalid boolean %q", v)
		}
		c.ValidateSSL = &b
	}
	if v, ok := vars["PROXY"]; ok {
		c.Proxy = v
	}
	if v, ok := vars["LOG_LEVEL"]; ok {
		c.LogLevel = v
	}
	if v, ok := vars["NO_COLOR"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PINGA_NO_COLOR: invalid boolean %q", v)
		}
		c.NoColor = &b
	}
	return nil
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate rejects settings that cannot be applied.
func (c *Config) Validate() error {
	var err error
	if c.Timeout < 0 {
		err = multierr.Append(err, errors.New("timeout must not be negative"))
	}
	if c.MaxRedirects < 0 {
		err = multierr.Append(err, errors.New("max_redirects must not be negative"))
	}
	if c.MaxBodyTokens < 0 {
		err = multierr.Append(err, errors.New("max_body_tokens must not be negative"))
	}
	if c.LogLevel != "" && !validLevel(c.LogLevel) {
		err = multierr.Append(err, fmt.Errorf("log_level must be one of %s, got %q",
			strings.Join(validLogLevels, ", "), c.LogLevel))
	}
	return err
}

func validLevel(level string) bool {
	for _, l := range validLogLevels {
		if strings.EqualFold(l, level) {
			return true
		}
	}
	return false
}
