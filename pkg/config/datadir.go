package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "daybook"

// DefaultDataDir returns where entity files live when nothing is configured.
//
//   - macOS:   ~/Library/Application Support/daybook
//   - Linux:   $XDG_DATA_HOME/daybook (fallback ~/.local/share/daybook)
//   - Windows: %LOCALAPPDATA%\daybook (fallback %APPDATA%\daybook)
func DefaultDataDir() string {
	return defaultDataDirForOS(runtime.GOOS)
}

// DefaultConfigDir returns the directory searched for config.yaml.
//
//   - macOS:   ~/Library/Preferences/daybook
//   - Linux:   $XDG_CONFIG_HOME/daybook (fallback ~/.config/daybook)
//   - Windows: %APPDATA%\daybook
func DefaultConfigDir() string {
	return defaultConfigDirForOS(runtime.GOOS)
}

func defaultDataDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		return firstEnvDir(filepath.Join(home, appName), "LOCALAPPDATA", "APPDATA")
	default:
		return firstEnvDir(filepath.Join(home, ".local", "share", appName), "XDG_DATA_HOME")
	}
}

func defaultConfigDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Preferences", appName)
	case "windows":
		return firstEnvDir(filepath.Join(home, appName), "APPDATA")
	default:
		return firstEnvDir(filepath.Join(home, ".config", appName), "XDG_CONFIG_HOME")
	}
}

// firstEnvDir joins appName onto the first non-empty env var, else returns fallback.
func firstEnvDir(fallback string, vars ...string) string {
	for _, v := range vars {
		if dir := os.Getenv(v); dir != "" {
			return filepath.Join(dir, appName)
		}
	}
	return fallback
}
