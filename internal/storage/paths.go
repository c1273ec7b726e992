// Package storage persists search results in BadgerDB.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chesscore"

// userDataRoot returns the per-user application data root for the platform:
// ~/Library/Application Support on macOS, %APPDATA% on Windows, and
// $XDG_DATA_HOME or ~/.local/share elsewhere.
func userDataRoot() (string, error) {
	var env string
	var fallback []string

	switch runtime.GOOS {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		env = "APPDATA"
		fallback = []string{"AppData", "Roaming"}
	default:
		env = "XDG_DATA_HOME"
		fallback = []string{".local", "share"}
	}

	if env != "" {
		if dir := os.Getenv(env); dir != "" {
			return dir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

// GetDataDir returns the application data directory, creating it if needed.
func GetDataDir() (string, error) {
	root, err := userDataRoot()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(root, appName))
}

// GetDatabaseDir returns the directory for the analysis database, creating
// it if needed.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(dataDir, "db"))
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
