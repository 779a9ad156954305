package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Editor selects which editor installation is synced.
type Editor string

const (
	EditorCode     Editor = "code"
	EditorInsiders Editor = "code-insiders"
	EditorCodium   Editor = "vscodium"
)

// Editors lists the supported editor flavours.
var Editors = []Editor{EditorCode, EditorInsiders, EditorCodium}

// ParseEditor normalizes an editor name.
func ParseEditor(s string) (Editor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "code", "vscode":
		return EditorCode, nil
	case "code-insiders", "insiders":
		return EditorInsiders, nil
	case "vscodium", "codium":
		return EditorCodium, nil
	}
	return "", fmt.Errorf("unknown editor %q (want code, code-insiders or vscodium)", s)
}

// dataDir is the editor's folder under the OS config directory.
func (e Editor) dataDir() string {
	switch e {
	case EditorInsiders:
		return "Code - Insiders"
	case EditorCodium:
		return "VSCodium"
	default:
		return "Code"
	}
}

// extensionsHome is the editor's dot folder under the home directory.
func (e Editor) extensionsHome() string {
	switch e {
	case EditorInsiders:
		return ".vscode-insiders"
	case EditorCodium:
		return ".vscode-oss"
	default:
		return ".vscode"
	}
}

// SettingsFile returns the local settings file, honouring
// local_settings_path. Portable installs (VSCODE_PORTABLE) keep it under
// the portable data directory.
func (c *Config) SettingsFile() string {
	if c.LocalSettingsPath != "" {
		return c.LocalSettingsPath
	}
	if portable := os.Getenv("VSCODE_PORTABLE"); portable != "" {
		return filepath.Join(portable, "user-data", "User", "settings.json")
	}
	return defaultSettingsFile(c.Editor, osUserConfigDir())
}

// ExtensionsDir returns the local extensions directory, honouring
// local_extensions_path.
func (c *Config) ExtensionsDir() string {
	if c.LocalExtensionsPath != "" {
		return c.LocalExtensionsPath
	}
	if portable := os.Getenv("VSCODE_PORTABLE"); portable != "" {
		return filepath.Join(portable, "extensions")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return defaultExtensionsDir(c.Editor, home)
}

func defaultSettingsFile(e Editor, configDir string) string {
	if configDir == "" {
		return ""
	}
	return filepath.Join(configDir, e.dataDir(), "User", "settings.json")
}

func defaultExtensionsDir(e Editor, home string) string {
	return filepath.Join(home, e.extensionsHome(), "extensions")
}
