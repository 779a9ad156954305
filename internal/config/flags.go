package config

import (
	"github.com/spf13/pflag"
)

// Flag names registered by RegisterFlags.
const (
	FlagConfig         = "config"
	FlagLogLevel       = "log-level"
	FlagLogFormat      = "log-format"
	FlagLogDir         = "log-dir"
	FlagEditor         = "editor"
	FlagNonInteractive = "non-interactive"
)

// flagKeys maps flags that override a config key.
var flagKeys = map[string]string{
	FlagLogLevel:  "log_level",
	FlagLogFormat: "log_format",
	FlagLogDir:    "log_dir",
	FlagEditor:    "editor",
}

// RegisterFlags defines the global configuration flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "Path to config file (default ~/.envsync/envsync.toml)")
	fs.String(FlagLogLevel, DefaultLogLevel, "Log level: debug, info, warn, error")
	fs.String(FlagLogFormat, DefaultLogFormat, "Log format: text, json, logfmt")
	fs.String(FlagLogDir, DefaultLogDir, "Directory for the rotating log file (empty disables)")
	fs.String(FlagEditor, string(DefaultEditor), "Editor flavour: code, code-insiders, vscodium")
	fs.Bool(FlagNonInteractive, false, "Never prompt; abandon steps whose paths are missing")
}

// applyFlags copies explicitly set flags onto cfg.
func applyFlags(cfg *Config, fs *pflag.FlagSet, sources map[string]Source) error {
	if fs == nil {
		return nil
	}
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := cfg.SetValue(key, flag.Value.String()); err != nil {
			return err
		}
		if sources != nil {
			sources[key] = SourceFlag
		}
	}
	if flag := fs.Lookup(FlagNonInteractive); flag != nil && flag.Changed {
		v, err := fs.GetBool(FlagNonInteractive)
		if err != nil {
			return err
		}
		cfg.NonInteractive = v
	}
	return nil
}

// configFileFlag returns the --config value, if set.
func configFileFlag(fs *pflag.FlagSet) string {
	if fs == nil {
		return ""
	}
	if flag := fs.Lookup(FlagConfig); flag != nil {
		return flag.Value.String()
	}
	return ""
}
