package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"sol-paper-ledger/internal/cli"
	"sol-paper-ledger/internal/config"
	"sol-paper-ledger/internal/journal"
	"sol-paper-ledger/internal/ledger"
	"sol-paper-ledger/internal/logger"
	"sol-paper-ledger/internal/models"
	"sol-paper-ledger/internal/persistence"
)

func main() {
	// os.Exit skips deferred cleanup, so all the work happens in run.
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	// A default logger so bootstrap problems are reported; it is
	// re-initialized from the config file below.
	logger.InitLogger(models.LogConfig{Level: "warn", Output: "console"})

	// .env is optional; it can point at an alternate config in dev
	// setups.
	if err := godotenv.Load(); err == nil {
		logger.S().Debug("Loaded environment from .env file.")
	}
	if *configPath == "" {
		*configPath = os.Getenv("SOLPAPER_CONFIG")
	}
	if *configPath == "" {
		*configPath = "config.json"
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.S().Errorf("Failed to load config file: %v", err)
		return 1
	}

	logger.InitLogger(cfg.LogConfig)
	defer logger.S().Sync()

	repo, err := persistence.NewBadgerRepository(cfg.DBPath)
	if err != nil {
		logger.S().Errorf("Failed to open state database: %v", err)
		return 1
	}
	defer repo.Close()

	// The journal is best-effort: if it cannot be opened the ledger
	// still works, just without an audit trail.
	var jrnl *journal.Journal
	if cfg.JournalPath != "" {
		jrnl, err = journal.Open(cfg.JournalPath)
		if err != nil {
			logger.S().Warnf("Journal unavailable: %v", err)
		} else {
			defer jrnl.Close()
		}
	}

	mgr, err := ledger.NewManager(repo, jrnl, logger.L())
	if err != nil {
		logger.S().Errorf("Failed to initialize ledger: %v", err)
		return 1
	}
	mgr.Start()
	defer func() {
		if err := mgr.Close(); err != nil {
			logger.S().Errorf("Failed to save state on shutdown: %v", err)
		}
	}()

	cli.Register(mgr)
	return int(subcommands.Execute(context.Background()))
}
