package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/featuremap/featuremap/internal/app"
	"github.com/featuremap/featuremap/internal/contract"
)

// serveCmd serves the document and derived views over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve [source]",
	Short: "Serve the document and derived views over HTTP.",
	Long: `Start an HTTP server for dashboard frontends.

Endpoints:
  /features.json   the raw feature forest
  /api/insights    flat rows, with ?q= smart query, ?sort=, ?direction=, ?limit=
  /api/deps/{path} grouped dependencies with coupling alerts
  /healthz         liveness plus document info

Examples:
  # Serve the default document
  featuremap serve

  # Re-ingest the file on change
  featuremap serve --watch

  # Custom bind address
  featuremap serve --addr 0.0.0.0:9000`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := app.ExecuteServe(ctx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot serve document", err)
		}
	},
}
