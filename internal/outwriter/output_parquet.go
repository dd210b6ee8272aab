package outwriter

import (
	"errors"
	"fmt"
	"os"

	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/internal/parquet"
)

// writeInsightParquetResults writes the insight rows to a Parquet file.
// Parquet is a binary columnar format, so stdout output is not supported.
func writeInsightParquetResults(rows []map[string]any, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}

	data := parquet.InsightRowsFromMaps(rows)
	if err := parquet.WriteInsightRowsParquet(data, cfg.OutputFile); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "💾 Wrote %d parquet rows to %s\n", len(data), cfg.OutputFile)
	return nil
}
