package config

// Source represents where a configuration value came from.
type Source string

const (
	SourceDefault  Source = "default"
	SourceUserFile Source = "user file"
	SourceEnv      Source = "environment"
	SourceFlag     Source = "flag"
)

// WithSources holds configuration along with source information for each key.
type WithSources struct {
	Config  *Config
	Sources map[string]Source
}

// Configuration keys shared with the sync host.
const (
	KeyRemoteExtensionsPath = "remote_extensions_path"
	KeyRemoteSettingsPath   = "remote_settings_path"
	KeyRemoteDefaultsFile   = "remote_defaults_file"
)

// Default values.
const (
	DefaultEditor      = EditorCode
	DefaultCopyWorkers = 4
	DefaultLogDir      = "~/.envsync"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
)

// Config holds the full configuration for envsync.
type Config struct {
	// Remote share
	RemoteExtensionsPath string `toml:"remote_extensions_path"`
	RemoteSettingsPath   string `toml:"remote_settings_path"`
	RemoteDefaultsFile   string `toml:"remote_defaults_file"`

	// Local editor
	Editor              Editor `toml:"editor"`
	LocalSettingsPath   string `toml:"local_settings_path"`
	LocalExtensionsPath string `toml:"local_extensions_path"`

	// Sync behaviour
	CopyWorkers   int  `toml:"copy_workers"`
	SyncOnStartup bool `toml:"sync_on_startup"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogDir        string `toml:"log_dir"`
	LogTimestamps bool   `toml:"log_timestamps"`

	// NonInteractive forbids prompts even for explicit commands.
	NonInteractive bool `toml:"-"`

	// File is the user config file runtime changes are written to.
	File string `toml:"-"`
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Editor = DefaultEditor
	cfg.CopyWorkers = DefaultCopyWorkers
	cfg.LogDir = DefaultLogDir
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}
