package cmd

import (
	"github.com/spf13/cobra"

	"github.com/featuremap/featuremap/internal/app"
	"github.com/featuremap/featuremap/internal/contract"
)

// depsFeaturePath holds the optional positional feature path for depsCmd.
var depsFeaturePath string

// depsCmd prints grouped dependencies with coupling alerts.
var depsCmd = &cobra.Command{
	Use:   "deps [feature-path]",
	Short: "Show grouped dependencies and coupling alerts.",
	Long: `Group raw dependency evidence by target feature and relation type,
and flag circular and tight coupling.

A group is circular when the target depends back on the feature. A group is
tight when all references hit one file more than 5 times, or spread over 3+
files more than 3 times.

Examples:
  # All features with dependencies
  featuremap deps

  # One feature only
  featuremap deps src/auth

  # Only sibling relations, as JSON
  featuremap deps --type sibling --output json`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// The positional argument is a feature path, not a source.
		if len(args) == 1 {
			depsFeaturePath = args[0]
		}
		return sharedSetup(rootCtx, cmd, nil)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := app.ExecuteDeps(cfg, storeManager, depsFeaturePath); err != nil {
			contract.LogFatal("Cannot report dependencies", err)
		}
	},
}
