package app

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDirName     = "fit"
	dbFileName     = "fit.db"
	configFileName = "config.yaml"
	mirrorFileName = "shared.json"
	logFileName    = "fit.log"
)

func configBase() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

func DefaultDBPath() (string, error) {
	base, err := configBase()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, dbFileName), nil
}

func DefaultConfigPath() (string, error) {
	base, err := configBase()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, configFileName), nil
}

// MirrorPath is the file that widgets and complications read between
// launches. It sits next to the database.
func MirrorPath(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), mirrorFileName)
}

// BackupDir is where backups go unless a directory is given.
func BackupDir(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), "backups")
}

// LogPath is the rotating log file kept beside the config file.
func LogPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "logs", logFileName)
}

func EnsureDBDir(path string) error {
	return EnsureParentDir(path)
}

func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
