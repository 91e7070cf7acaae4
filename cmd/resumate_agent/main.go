// Package main provides the entry point for the resumate selection agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resumate_agent",
	Short: "AI-orchestrated experience bullet selection",
	Long:  "resumate_agent selects the most relevant experience bullets from a hierarchical compendium for a given job description, via LLM providers with heuristic fallback.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
