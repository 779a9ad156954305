// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.envsync/envsync.toml or OS-specific config directory)
// 3. Environment variables (ENVSYNC_*)
// 4. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.envsync/envsync.toml (preferred)
// - Windows: %APPDATA%\envsync\envsync.toml
// - macOS: ~/Library/Application Support/envsync/envsync.toml
// - Linux/BSD: $XDG_CONFIG_HOME/envsync/envsync.toml or ~/.config/envsync/envsync.toml
//
// Values changed at runtime (paths entered at a prompt, a disabled defaults
// file) are written back to the user config file only.
package config
