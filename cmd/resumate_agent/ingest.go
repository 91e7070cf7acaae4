package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/olliegilbey/resumate-sub000/internal/config"
	"github.com/olliegilbey/resumate-sub000/internal/store"
)

var (
	ingestFlags commonFlags
	ingestFile  string
	ingestName  string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Validate a compendium file and save it to the database",
	Long:  `Ingest validates a compendium JSON document against the schema and stores it as the newest named version. Subsequent select and score runs against the same database pick it up.`,
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "Path to the compendium JSON document")
	ingestCmd.Flags().StringVar(&ingestName, "name", "default", "Name for this compendium version")
	ingestCmd.Flags().StringVar(&ingestFlags.configPath, "config", "", "Path to a JSON config file")
	ingestCmd.Flags().StringVar(&ingestFlags.databaseURL, "database-url", "", "Postgres connection URL (or DATABASE_URL)")
	_ = ingestCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	cfg := &config.Config{DatabaseURL: ingestFlags.databaseURL}
	if ingestFlags.configPath != "" {
		fileCfg, err := config.LoadConfig(ingestFlags.configPath)
		if err != nil {
			return err
		}
		merged := cfg.MergeWithDefaults(*fileCfg)
		cfg = &merged
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("--database-url (or DATABASE_URL) is required for ingest")
	}

	document, err := os.ReadFile(ingestFile)
	if err != nil {
		return fmt.Errorf("failed to read compendium file: %w", err)
	}

	ctx := cmd.Context()
	st, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.Save(ctx, ingestName, document)
	if err != nil {
		return err
	}
	fmt.Printf("Saved compendium %q as %s\n", ingestName, id)
	return nil
}
