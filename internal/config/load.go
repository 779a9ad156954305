package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (--config, ENVSYNC_CONFIG, or the first user location)
// 3. Environment variables
// 4. CLI flags
func Load(flags *pflag.FlagSet) (*Config, error) {
	cws, err := load(flags, false)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
func LoadWithSources(flags *pflag.FlagSet) (*WithSources, error) {
	return load(flags, true)
}

func load(flags *pflag.FlagSet, track bool) (*WithSources, error) {
	cfg := &Config{}
	var sources map[string]Source
	if track {
		sources = make(map[string]Source, len(fields))
		for _, key := range Keys() {
			sources[key] = SourceDefault
		}
	}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. User config file
	file, explicit := configFileFlag(flags), true
	if file == "" {
		file = os.Getenv("ENVSYNC_CONFIG")
	}
	if file == "" {
		explicit = false
		file = findUserConfigFile()
	}
	if file != "" {
		file = expandPath(file)
		err := loadConfigFile(cfg, file, sources)
		switch {
		case err == nil:
		case errors.Is(err, fs.ErrNotExist) && explicit:
			// An explicit file that does not exist yet is created on first save.
		default:
			return nil, fmt.Errorf("loading config file %s: %w", file, err)
		}
		cfg.File = file
	} else {
		cfg.File = DefaultUserConfigFile()
	}

	// 3. Override from environment
	if err := loadFromEnv(cfg, sources); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	// 4. CLI flags override everything
	if err := applyFlags(cfg, flags, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	finalizeConfig(cfg)
	return &WithSources{Config: cfg, Sources: sources}, nil
}

// loadConfigFile decodes the TOML file at path over cfg. Keys present in
// the file are recorded in sources when it is non-nil.
func loadConfigFile(cfg *Config, path string, sources map[string]Source) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if _, err := ParseEditor(string(cfg.Editor)); err != nil {
		return err
	}
	if cfg.CopyWorkers < 1 {
		return fmt.Errorf("copy_workers must be a positive integer, got %d", cfg.CopyWorkers)
	}
	if sources != nil {
		for _, key := range Keys() {
			if md.IsDefined(key) {
				sources[key] = SourceUserFile
			}
		}
	}
	return nil
}

// finalizeConfig normalizes values after all layers are applied.
// Remote paths stay as entered so they are saved back unchanged; callers
// expand them with ExpandPath.
func finalizeConfig(cfg *Config) {
	cfg.Editor, _ = ParseEditor(string(cfg.Editor))
	cfg.LogDir = expandPath(cfg.LogDir)
	cfg.LocalSettingsPath = expandPath(cfg.LocalSettingsPath)
	cfg.LocalExtensionsPath = expandPath(cfg.LocalExtensionsPath)
}

// UpdateFile sets key to value in the TOML file at path, keeping every
// other key. An empty value removes the key. The file and its directory
// are created when missing.
func UpdateFile(path, key, value string) error {
	if _, ok := lookupField(key); !ok {
		return fmt.Errorf("unknown config key %q", key)
	}

	table := map[string]any{}
	if _, err := toml.DecodeFile(path, &table); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	// Keep the file's own types for numbers and booleans.
	probe := &Config{}
	setDefaults(probe)
	if err := probe.SetValue(key, value); err != nil {
		return err
	}
	switch key {
	case "copy_workers":
		table[key] = probe.CopyWorkers
	case "sync_on_startup":
		table[key] = probe.SyncOnStartup
	case "log_timestamps":
		table[key] = probe.LogTimestamps
	default:
		if value == "" {
			delete(table, key)
		} else {
			table[key] = probe.Value(key)
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(table); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
