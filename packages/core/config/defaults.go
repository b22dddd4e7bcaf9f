package config

import "github.com/abdul-hamid-achik/pinga/packages/core/parser"

const (
	DefaultMaxRedirects = 10
	DefaultLogLevel     = "warn"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Timeout:         0, // none
		FollowRedirects: BoolPtr(false),
		MaxRedirects:    DefaultMaxRedirects,
		ValidateSSL:     BoolPtr(true),
		LogLevel:        DefaultLogLevel,
		NoColor:         BoolPtr(false),
		MaxBodyTokens:   parser.DefaultMaxBodyTokens,
	}
}
