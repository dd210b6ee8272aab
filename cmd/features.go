package cmd

import (
	"github.com/spf13/cobra"

	"github.com/featuremap/featuremap/internal/app"
	"github.com/featuremap/featuremap/internal/contract"
)

// featuresCmd lists the flattened feature inventory.
var featuresCmd = &cobra.Command{
	Use:   "features [source]",
	Short: "List features with owners, stats, and coupling alerts.",
	Long: `Flatten the feature hierarchy into dashboard-ready rows.

Each row carries the resolved owner (with inheritance), file/line/TODO
counts, commit totals, coverage, and the number of dependency groups with
coupling alerts.

Examples:
  # Show the first 50 features of the default document
  featuremap features

  # Smart query with field conditions
  featuremap features --query "owner:platform AND lines:>1000"

  # Bare terms search name, path, owner, and description
  featuremap features --query "auth"

  # Sort by a nested stats field, largest first
  featuremap features --sort stats.lines_count --direction desc

  # Export to CSV for tracking
  featuremap features --output csv --output-file features.csv

  # Export to Parquet for analytics
  featuremap features --output parquet --output-file features.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := app.ExecuteFeatures(cfg, storeManager); err != nil {
			contract.LogFatal("Cannot list features", err)
		}
	},
}
