package config

import (
	"encoding/json"
	"os"

	"sol-paper-ledger/internal/models"
)

// DefaultConfig returns the configuration used when no config file is
// present. Logs go to stderr so command output stays clean.
func DefaultConfig() *models.Config {
	return &models.Config{
		DBPath:      "solpaper_state",
		JournalPath: "solpaper_journal.db",
		LogConfig: models.LogConfig{
			Level:  "warn",
			Output: "console",
		},
	}
}

// LoadConfig loads the JSON config file at path. A missing file yields
// the defaults; a malformed one is an error.
func LoadConfig(path string) (*models.Config, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := DefaultConfig()
	if err := json.NewDecoder(file).Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
