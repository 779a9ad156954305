package config

import (
	"fmt"
	"os"
)

// loadFromEnv overrides config from ENVSYNC_* variables. A value that
// does not parse is an error.
func loadFromEnv(cfg *Config, sources map[string]Source) error {
	for _, f := range fields {
		v, ok := os.LookupEnv(f.env)
		if !ok || v == "" {
			continue
		}
		if err := f.set(cfg, v); err != nil {
			return fmt.Errorf("%s: %w", f.env, err)
		}
		if sources != nil {
			sources[f.key] = SourceEnv
		}
	}
	return nil
}
