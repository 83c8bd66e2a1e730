package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - YCKF_CONFIG_PATH: config file location (default: ~/.config/yckf.toml)
//   - YCKF_HOME: base directory for yckf data (default: ~/.local/share/yckf)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking YCKF_CONFIG_PATH first,
// then falling back to the default ~/.config/yckf.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("YCKF_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "yckf.toml"), nil
}

// getBaseDir returns the base directory for yckf data, checking YCKF_HOME first,
// then falling back to the XDG default ~/.local/share/yckf.
func getBaseDir() (string, error) {
	if path := os.Getenv("YCKF_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "yckf"), nil
}
