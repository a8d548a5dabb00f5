package models

// Config holds the application configuration loaded from the JSON config
// file. Paths are relative to the working directory unless absolute.
type Config struct {
	DBPath      string    `json:"db_path"`      // BadgerDB directory for the ledger state
	JournalPath string    `json:"journal_path"` // SQLite file for the operation journal
	LogConfig   LogConfig `json:"log"`
}

// LogConfig defines the logging configuration.
type LogConfig struct {
	Level      string `json:"level"`       // log level, e.g. "debug", "info", "warn", "error"
	Output     string `json:"output"`      // output mode: "console", "file", "both"
	File       string `json:"file"`        // log file path
	MaxSize    int    `json:"max_size"`    // max size of a single log file (MB)
	MaxBackups int    `json:"max_backups"` // max number of rotated files to keep
	MaxAge     int    `json:"max_age"`     // max age of rotated files (days)
	Compress   bool   `json:"compress"`    // compress rotated files
}
