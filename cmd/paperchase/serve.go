package main

import (
	"github.com/spf13/cobra"

	"github.com/paperchase/paperchase/internal/metrics"
	"github.com/paperchase/paperchase/internal/server"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve the search pipeline over HTTP.

Endpoints:
  GET  /search?q=...&k=N   offline corpus search
  POST /query              offline corpus search (JSON body)
  GET  /discover?q=...&k=N online arXiv discovery
  GET  /healthz            liveness check
  GET  /metrics            Prometheus metrics`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	logger := newLogger()
	defer logger.Sync()

	metrics.Register()

	pipe, store, closeIndex := buildServerPipeline(cfg, logger)
	defer closeIndex()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(pipe, store, logger)
	if err := srv.ListenAndServe(addr); err != nil {
		exitWithError(ExitError, "server: %v", err)
	}
	return nil
}
