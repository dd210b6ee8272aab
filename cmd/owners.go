package cmd

import (
	"github.com/spf13/cobra"

	"github.com/featuremap/featuremap/internal/app"
	"github.com/featuremap/featuremap/internal/contract"
)

// ownersCmd aggregates features per resolved owner.
var ownersCmd = &cobra.Command{
	Use:   "owners [source]",
	Short: "Aggregate features per resolved owner.",
	Long: `List every distinct owner after inheritance resolution, with the
number of owned features, how many own through inheritance, total lines,
and alerting dependency groups.

Examples:
  # Owner table for the default document
  featuremap owners

  # As JSON for further processing
  featuremap owners --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := app.ExecuteOwners(cfg, storeManager); err != nil {
			contract.LogFatal("Cannot aggregate owners", err)
		}
	},
}
