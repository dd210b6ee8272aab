package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/featuremap/featuremap/internal/app"
	"github.com/featuremap/featuremap/internal/contract"
)

// checkCmd validates the loaded document for CI/CD gating.
var checkCmd = &cobra.Command{
	Use:   "check [source]",
	Short: "Validate the document (fails build on duplicate names or paths)",
	Long: `Run data-quality checks over the loaded document.

Errors (non-zero exit):
- Duplicate feature names across the forest
- Duplicate feature paths

Warnings (reported, exit stays zero):
- Dependency targets that resolve to no known feature

Examples:
  # Gate a pipeline on document validity
  featuremap check scanner-output.json

  # Machine-readable findings
  featuremap check --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		passed, err := app.ExecuteCheck(cfg, storeManager)
		if err != nil {
			contract.LogFatal("Cannot run checks", err)
		}
		if !passed {
			os.Exit(1)
		}
	},
}
