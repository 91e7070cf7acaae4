package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/olliegilbey/resumate-sub000/internal/jobdesc"
	"github.com/olliegilbey/resumate-sub000/internal/observability"
	"github.com/olliegilbey/resumate-sub000/internal/pipeline"
	"github.com/olliegilbey/resumate-sub000/internal/prompts"
)

var (
	selectFlags  commonFlags
	selectJob    string
	selectJobURL string
	selectOutput string
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select bullets for a job description using an LLM",
	Long:  `Select reads a job description (from a file or URL), prompts the configured LLM providers, validates the response, and prints the diversity-filtered selection as JSON.`,
	RunE:  runSelect,
}

func init() {
	selectCmd.Flags().StringVar(&selectJob, "job", "", "Path to a job description text file")
	selectCmd.Flags().StringVar(&selectJobURL, "job-url", "", "URL of a job posting to fetch")
	selectCmd.Flags().StringVarP(&selectOutput, "output", "o", "", "Write the result JSON to a file instead of stdout")
	addCommonFlags(selectCmd, &selectFlags)
	rootCmd.AddCommand(selectCmd)
}

func runSelect(cmd *cobra.Command, _ []string) error {
	if (selectJob == "") == (selectJobURL == "") {
		return fmt.Errorf("exactly one of --job or --job-url is required")
	}

	cfg, err := selectFlags.resolveConfig()
	if err != nil {
		return err
	}
	log, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()

	var description string
	if selectJob != "" {
		description, err = jobdesc.FromFile(selectJob)
	} else {
		description, err = jobdesc.Fetch(ctx, selectJobURL)
	}
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	comp, err := st.Load(ctx)
	if err != nil {
		return err
	}

	orchestrator, err := buildOrchestrator(cfg, log)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stderr)
	if cfg.Verbose {
		printer.PrintBudget(prompts.CheckInventorySize(prompts.RenderInventory(comp)))
	}

	result, err := orchestrator.Select(ctx, description, comp, selectFlags.selectionConfig(cfg))
	if err != nil {
		var selErr *pipeline.SelectionError
		if errors.As(err, &selErr) && cfg.Verbose {
			printer.PrintErrors(selErr)
		}
		return err
	}

	if cfg.Verbose {
		printer.PrintSelection(result)
	}
	return writeResult(result, selectOutput)
}

// addCommonFlags registers the flags shared by the selection commands.
func addCommonFlags(cmd *cobra.Command, flags *commonFlags) {
	cmd.Flags().StringVar(&flags.configPath, "config", "", "Path to a JSON config file")
	cmd.Flags().StringVar(&flags.compendium, "compendium", "", "Path to the compendium JSON file")
	cmd.Flags().StringVar(&flags.databaseURL, "database-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL)")
	cmd.Flags().StringVar(&flags.provider, "provider", "", "Use a single provider: gemini, openai or anthropic")
	cmd.Flags().IntVar(&flags.maxBullets, "max-bullets", 0, "Maximum bullets in the final selection")
	cmd.Flags().IntVar(&flags.maxPerCompany, "max-per-company", 0, "Maximum bullets per company")
	cmd.Flags().IntVar(&flags.maxPerPosition, "max-per-position", 0, "Maximum bullets per position")
	cmd.Flags().IntVar(&flags.minPerCompany, "min-per-company", 0, "Drop companies with fewer selected bullets than this")
	cmd.Flags().IntVar(&flags.maxRetries, "max-retries", 0, "Retry attempts per provider for format errors")
	cmd.Flags().BoolVar(&flags.noFallback, "no-fallback", false, "Do not fall back to other providers")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Print detailed progress information")
	cmd.Flags().BoolVar(&flags.jsonLogs, "json-logs", false, "Emit logs as JSON")
}
