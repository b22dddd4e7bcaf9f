// Package env reads PINGA_ prefixed environment variables used to override
// tool settings.
package env
