// Package cmd defines the command-line interface for featuremap.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(ownersCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(snapshotsCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the snapshots subcommands to the parent snapshots command
	snapshotsCmd.AddCommand(snapshotsListCmd)
	snapshotsCmd.AddCommand(snapshotsRecordCmd)
	snapshotsCmd.AddCommand(snapshotsStatusCmd)
	snapshotsCmd.AddCommand(snapshotsExportCmd)
	snapshotsCmd.AddCommand(snapshotsClearCmd)
	snapshotsCmd.AddCommand(snapshotsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("query", "q", "", "Smart query, e.g. 'owner:platform AND lines:>1000' or a bare search term")
	rootCmd.PersistentFlags().StringP("sort", "s", "", "Field to sort by, dot paths allowed (e.g. 'stats.lines_count')")
	rootCmd.PersistentFlags().String("direction", "", "Sort direction: asc or desc (requires --sort)")
	rootCmd.PersistentFlags().String("search-fields", "", "Comma-separated fields searched by bare query terms")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Document cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("snapshot-backend", "", "Snapshot tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("snapshot-db-connect", "", "Database connection string for snapshot tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of featuresCmd to Viper
	featuresCmd.Flags().String("owner", "", "Keep only features resolving to this owner")
	if err := viper.BindPFlags(featuresCmd.Flags()); err != nil {
		contract.LogFatal("Error binding features flags", err)
	}

	// Bind all flags of depsCmd to Viper
	depsCmd.Flags().String("type", "", "Keep only one relation type: parent, child, sibling")
	if err := viper.BindPFlags(depsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding deps flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultServeAddr, "Address to serve on")
	serveCmd.Flags().Bool("watch", false, "Re-ingest the source file when it changes")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of snapshotsMigrateCmd to Viper
	snapshotsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(snapshotsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding snapshots migrate flags", err)
	}
}
