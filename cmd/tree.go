package cmd

import (
	"github.com/spf13/cobra"

	"github.com/featuremap/featuremap/internal/app"
	"github.com/featuremap/featuremap/internal/contract"
)

// treeCmd prints the nested feature hierarchy.
var treeCmd = &cobra.Command{
	Use:   "tree [source]",
	Short: "Print the nested feature hierarchy with owner markers.",
	Long: `Render the feature forest as an indented tree. Each line shows the
feature name, its resolved owner (marked when inherited), and its path.

Examples:
  featuremap tree
  featuremap tree --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := app.ExecuteTree(cfg, storeManager); err != nil {
			contract.LogFatal("Cannot print tree", err)
		}
	},
}
