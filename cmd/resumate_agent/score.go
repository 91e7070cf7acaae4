package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/olliegilbey/resumate-sub000/internal/observability"
)

var (
	scoreFlags  commonFlags
	scoreRole   string
	scoreOutput string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Select bullets deterministically using a role profile",
	Long:  `Score runs the heuristic scorer against a role profile from the compendium. No network, no LLM providers; same diversity filtering and output shape as select.`,
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreRole, "role", "", "Role profile ID from the compendium")
	scoreCmd.Flags().StringVarP(&scoreOutput, "output", "o", "", "Write the result JSON to a file instead of stdout")
	_ = scoreCmd.MarkFlagRequired("role")
	addCommonFlags(scoreCmd, &scoreFlags)
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	cfg, err := scoreFlags.resolveConfig()
	if err != nil {
		return err
	}
	log, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	comp, err := st.Load(ctx)
	if err != nil {
		return err
	}
	profile := comp.Profile(scoreRole)
	if profile == nil {
		return fmt.Errorf("role profile %q not found in compendium", scoreRole)
	}

	orchestrator, err := buildOrchestrator(cfg, log)
	if err != nil {
		return err
	}

	result, err := orchestrator.SelectHeuristic(ctx, comp, profile, scoreFlags.selectionConfig(cfg))
	if err != nil {
		return err
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintSelection(result)
	}
	return writeResult(result, scoreOutput)
}
