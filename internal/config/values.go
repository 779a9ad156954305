package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// field binds a TOML key to its environment variable and accessors.
type field struct {
	key string
	env string
	get func(*Config) string
	set func(*Config, string) error
}

func stringField(key, env string, ptr func(*Config) *string) field {
	return field{
		key: key,
		env: env,
		get: func(c *Config) string { return *ptr(c) },
		set: func(c *Config, v string) error {
			*ptr(c) = strings.TrimSpace(v)
			return nil
		},
	}
}

func boolField(key, env string, ptr func(*Config) *bool) field {
	return field{
		key: key,
		env: env,
		get: func(c *Config) string { return strconv.FormatBool(*ptr(c)) },
		set: func(c *Config, v string) error {
			b, err := parseBool(v)
			if err != nil {
				return err
			}
			*ptr(c) = b
			return nil
		},
	}
}

var fields = []field{
	stringField(KeyRemoteExtensionsPath, "ENVSYNC_REMOTE_EXTENSIONS", func(c *Config) *string { return &c.RemoteExtensionsPath }),
	stringField(KeyRemoteSettingsPath, "ENVSYNC_REMOTE_SETTINGS", func(c *Config) *string { return &c.RemoteSettingsPath }),
	stringField(KeyRemoteDefaultsFile, "ENVSYNC_REMOTE_DEFAULTS", func(c *Config) *string { return &c.RemoteDefaultsFile }),
	{
		key: "editor",
		env: "ENVSYNC_EDITOR",
		get: func(c *Config) string { return string(c.Editor) },
		set: func(c *Config, v string) error {
			e, err := ParseEditor(v)
			if err != nil {
				return err
			}
			c.Editor = e
			return nil
		},
	},
	stringField("local_settings_path", "ENVSYNC_LOCAL_SETTINGS", func(c *Config) *string { return &c.LocalSettingsPath }),
	stringField("local_extensions_path", "ENVSYNC_LOCAL_EXTENSIONS", func(c *Config) *string { return &c.LocalExtensionsPath }),
	{
		key: "copy_workers",
		env: "ENVSYNC_COPY_WORKERS",
		get: func(c *Config) string { return strconv.Itoa(c.CopyWorkers) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n < 1 {
				return fmt.Errorf("copy_workers must be a positive integer, got %q", v)
			}
			c.CopyWorkers = n
			return nil
		},
	},
	boolField("sync_on_startup", "ENVSYNC_SYNC_ON_STARTUP", func(c *Config) *bool { return &c.SyncOnStartup }),
	stringField("log_level", "ENVSYNC_LOG_LEVEL", func(c *Config) *string { return &c.LogLevel }),
	stringField("log_format", "ENVSYNC_LOG_FORMAT", func(c *Config) *string { return &c.LogFormat }),
	stringField("log_dir", "ENVSYNC_LOG_DIR", func(c *Config) *string { return &c.LogDir }),
	boolField("log_timestamps", "ENVSYNC_LOG_TIMESTAMPS", func(c *Config) *bool { return &c.LogTimestamps }),
}

func lookupField(key string) (field, bool) {
	for _, f := range fields {
		if f.key == key {
			return f, true
		}
	}
	return field{}, false
}

// Keys returns every configurable key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.key)
	}
	sort.Strings(keys)
	return keys
}

// Value returns the string form of key, or "" for unknown keys.
func (c *Config) Value(key string) string {
	f, ok := lookupField(key)
	if !ok {
		return ""
	}
	return f.get(c)
}

// SetValue parses value into key.
func (c *Config) SetValue(key, value string) error {
	f, ok := lookupField(key)
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := f.set(c, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// Persist sets key in memory and in the user config file.
func (c *Config) Persist(key, value string) error {
	if err := c.SetValue(key, value); err != nil {
		return err
	}
	path := c.File
	if path == "" {
		path = DefaultUserConfigFile()
		if path == "" {
			return fmt.Errorf("no user config file location available")
		}
		c.File = path
	}
	return UpdateFile(path, key, c.Value(key))
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
