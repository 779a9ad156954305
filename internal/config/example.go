package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# envsync configuration file
# Values can be overridden by ENVSYNC_* environment variables or CLI flags.
# Paths support ~ expansion, $VAR and %VAR% on Windows.

# Directory on the share holding extension package folders
remote_extensions_path = "//fileserver/team/editor/extensions"

# Settings document on the share mirrored into the local settings file
remote_settings_path = "//fileserver/team/editor/settings.json"

# Optional defaults document, relative to the remote settings directory.
# Its keys are added locally only when absent.
# remote_defaults_file = "defaults.json"

# Editor flavour: code, code-insiders or vscodium
editor = "code"

# Overrides for the per-OS local locations
# local_settings_path = "~/.config/Code/User/settings.json"
# local_extensions_path = "~/.vscode/extensions"

# Concurrent extension copies
copy_workers = 4

# Run a non-interactive sync from "envsync startup"
sync_on_startup = false

# Logging
log_level = "info"
log_format = "text"
log_dir = "~/.envsync"
log_timestamps = false
`
}
