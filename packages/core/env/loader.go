package env

import (
	"os"
	"strings"
)

// Prefix marks the environment variables pinga reads.
const Prefix = "PINGA_"

// LoadSystemEnv returns the process environment variables whose names start
// with prefix, keyed by the name with the prefix removed. An empty prefix
// returns everything.
func LoadSystemEnv(prefix string) map[string]string {
	return fromList(os.Environ(), prefix)
}

func fromList(environ []string, prefix string) map[string]string {
	result := make(map[string]string)
	for _, e := range environ {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		if prefix == "" {
			result[key] = value
		} else if len(key) > len(prefix) && strings.HasPrefix(key, prefix) {
			result[key[len(prefix):]] = value
		}
	}
	return result
}
