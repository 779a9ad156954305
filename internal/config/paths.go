package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath expands home directory and environment variables in paths.
// It supports ~/ or ~\ prefixes and %VAR% expansion on Windows.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := expandEnv(p)
	if expanded == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return home
	}
	if strings.HasPrefix(expanded, "~/") || (runtime.GOOS == "windows" && strings.HasPrefix(expanded, "~\\")) {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, expanded[2:])
	}
	return expanded
}

// ExpandPath is expandPath for values entered at runtime.
func ExpandPath(p string) string {
	return expandPath(strings.TrimSpace(p))
}

func expandEnv(p string) string {
	expanded := os.ExpandEnv(p)
	if runtime.GOOS != "windows" {
		return expanded
	}
	return expandWindowsEnv(expanded)
}

func expandWindowsEnv(p string) string {
	if !strings.Contains(p, "%") {
		return p
	}
	var b strings.Builder
	for i := 0; i < len(p); {
		if p[i] == '%' {
			end := strings.IndexByte(p[i+1:], '%')
			if end >= 0 {
				key := p[i+1 : i+1+end]
				if key == "" {
					b.WriteByte('%')
					i++
					continue
				}
				if val, ok := os.LookupEnv(key); ok {
					b.WriteString(val)
				} else {
					b.WriteByte('%')
					b.WriteString(key)
					b.WriteByte('%')
				}
				i += end + 2
				continue
			}
		}
		b.WriteByte(p[i])
		i++
	}
	return b.String()
}

// findUserConfigFile returns the first existing user config file, checking
// ~/.envsync/envsync.toml before the OS config directory.
func findUserConfigFile() string {
	for _, path := range userConfigCandidates() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// DefaultUserConfigFile is where a user config file is created when none
// exists yet.
func DefaultUserConfigFile() string {
	candidates := userConfigCandidates()
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

func userConfigCandidates() []string {
	var out []string
	if home, err := os.UserHomeDir(); err == nil {
		out = append(out, filepath.Join(home, ".envsync", "envsync.toml"))
	}
	if cfgDir := osUserConfigDir(); cfgDir != "" {
		out = append(out, filepath.Join(cfgDir, "envsync", "envsync.toml"))
	}
	return out
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	return userConfigDir(runtime.GOOS, os.Getenv, os.UserHomeDir)
}

func userConfigDir(goos string, getenv func(string) string, homeDir func() (string, error)) string {
	switch goos {
	case "windows":
		if appdata := getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		if home, err := homeDir(); err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		if home, err := homeDir(); err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}
