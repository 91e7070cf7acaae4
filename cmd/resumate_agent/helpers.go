package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/olliegilbey/resumate-sub000/internal/config"
	"github.com/olliegilbey/resumate-sub000/internal/llm"
	"github.com/olliegilbey/resumate-sub000/internal/logger"
	"github.com/olliegilbey/resumate-sub000/internal/pipeline"
	"github.com/olliegilbey/resumate-sub000/internal/store"
	"github.com/olliegilbey/resumate-sub000/internal/types"
)

// commonFlags are shared by the select, score and serve commands. Values
// merge in order: defaults, config file, CLI flags.
type commonFlags struct {
	configPath     string
	compendium     string
	databaseURL    string
	provider       string
	maxBullets     int
	maxPerCompany  int
	maxPerPosition int
	minPerCompany  int
	maxRetries     int
	noFallback     bool
	verbose        bool
	jsonLogs       bool
}

// resolveConfig folds the optional config file under the CLI flags.
func (f *commonFlags) resolveConfig() (*config.Config, error) {
	cfg := &config.Config{
		Compendium:      f.compendium,
		DatabaseURL:     f.databaseURL,
		Provider:        f.provider,
		MaxBullets:      f.maxBullets,
		MaxPerCompany:   f.maxPerCompany,
		MaxPerPosition:  f.maxPerPosition,
		MinPerCompany:   f.minPerCompany,
		MaxRetries:      f.maxRetries,
		DisableFallback: f.noFallback,
		Verbose:         f.verbose,
		JSONLogs:        f.jsonLogs,
	}

	if f.configPath != "" {
		fileCfg, err := config.LoadConfig(f.configPath)
		if err != nil {
			return nil, err
		}
		merged := cfg.MergeWithDefaults(*fileCfg)
		cfg = &merged
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *commonFlags) selectionConfig(cfg *config.Config) types.SelectionConfig {
	sel := types.DefaultSelectionConfig()
	if cfg.MaxBullets > 0 {
		sel.MaxBullets = cfg.MaxBullets
	}
	if cfg.MaxPerCompany > 0 {
		sel.MaxPerCompany = cfg.MaxPerCompany
	}
	if cfg.MaxPerPosition > 0 {
		sel.MaxPerPosition = cfg.MaxPerPosition
	}
	if cfg.MinPerCompany > 0 {
		sel.MinPerCompany = cfg.MinPerCompany
	}
	return sel
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(cfg.JSONLogs, cfg.Verbose)
}

// openStore picks Postgres when a database URL is configured, otherwise the
// compendium file.
func openStore(ctx context.Context, cfg *config.Config) (store.CompendiumStore, error) {
	if cfg.DatabaseURL != "" {
		return store.ConnectPostgres(ctx, cfg.DatabaseURL)
	}
	if cfg.Compendium == "" {
		return nil, fmt.Errorf("either --compendium or --database-url (or DATABASE_URL) is required")
	}
	return store.NewFileStore(cfg.Compendium), nil
}

func buildOrchestrator(cfg *config.Config, log *zap.Logger) (*pipeline.Orchestrator, error) {
	var providers []llm.Provider
	if cfg.Provider != "" {
		provider, err := llm.New(cfg.Provider, log)
		if err != nil {
			return nil, err
		}
		providers = []llm.Provider{provider}
	} else {
		providers = llm.DefaultChain(log)
	}

	opts := pipeline.Options{
		MaxRetries:      cfg.MaxRetries,
		DisableFallback: cfg.DisableFallback,
	}
	return pipeline.NewOrchestrator(providers, opts, log), nil
}

// writeResult emits the selection result as JSON, to a file or stdout.
func writeResult(result *types.SelectionResult, outputPath string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if outputPath == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
