package main

import (
	"github.com/spf13/cobra"

	"github.com/olliegilbey/resumate-sub000/internal/server"
)

var (
	serveFlags commonFlags
	servePort  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing the selection pipeline at POST /api/v1/select.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	addCommonFlags(serveCmd, &serveFlags)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := serveFlags.resolveConfig()
	if err != nil {
		return err
	}
	if cfg.Port == 0 || cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	log, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	st, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	orchestrator, err := buildOrchestrator(cfg, log)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{Port: cfg.Port}, orchestrator, st, log)
	return srv.Start()
}
