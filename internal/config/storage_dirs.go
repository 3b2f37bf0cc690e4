package config

import (
	"os"
	"path/filepath"
)

const (
	CONFIG_DIR_NAME  = ".hyperview"
	CONFIG_FILE_NAME = "hyperview.toml"
)

// ConfigDir is ~/.hyperview, or the working directory when no home directory is known.
func ConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		currentDir, err := os.Getwd()
		if err != nil {
			return "."
		}

		return currentDir
	}

	return filepath.Join(homeDir, CONFIG_DIR_NAME)
}

func DefaultSettingsPath() string {
	if path := os.Getenv("HYPERVIEW_CONFIG"); path != "" {
		return path
	}

	return filepath.Join(ConfigDir(), CONFIG_FILE_NAME)
}
