package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/schema"
)

// insightCSVHeader is the column order for CSV and the source of the table
// headers.
var insightCSVHeader = []string{
	"rank",
	"path",
	"name",
	"owner",
	"owner_inherited",
	"children",
	"dependencies",
	"changes",
	"files",
	"lines",
	"todos",
	"coverage",
	"alerts",
	"last_change",
}

// PrintInsightRows outputs the insight rows, dispatching based on the output
// format configured.
func PrintInsightRows(rows []map[string]any, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeInsightJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, insightCSVHeader, func(cw *csv.Writer) error {
				return writeInsightCSVRows(cw, rows)
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeInsightParquetResults(rows, cfg)
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeInsightTable(w, rows, cfg, duration)
		}, "Wrote table")
	}
}

// writeInsightTable generates and writes the human-readable table.
func writeInsightTable(w io.Writer, rows []map[string]any, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Path", "Owner", "Deps", "Changes", "Lines", "Coverage", "Alerts"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, row := range rows {
		owner := rowString(row, "owner")
		if cfg.UseColors {
			owner = contract.GetOwnerLabel(owner, rowBool(row, "owner_inherited"), true)
		} else {
			owner = contract.GetOwnerLabel(owner, rowBool(row, "owner_inherited"), false)
		}

		coverage := ""
		if _, ok := row["coverage"]; ok {
			if cfg.UseColors {
				coverage = contract.GetColorCoverageLabel(row["coverage"].(float64))
			} else {
				coverage = contract.GetPlainCoverageLabel(row["coverage"].(float64))
			}
		}

		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(rowString(row, "path"), getMaxTablePathWidth(cfg)),
			owner,
			strconv.Itoa(rowInt(row, "dependencies")),
			strconv.Itoa(rowInt(row, "changes")),
			strconv.Itoa(rowInt(row, "lines")),
			coverage,
			strconv.Itoa(rowInt(row, "alerts")),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	totalAlerts := 0
	for _, row := range rows {
		totalAlerts += rowInt(row, "alerts")
	}
	if _, err := fmt.Fprintf(w, "Showing %d features (alerting groups: %d)\n", len(rows), totalAlerts); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Loaded in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeInsightCSVRows writes the insight rows in CSV format.
func writeInsightCSVRows(w *csv.Writer, rows []map[string]any) error {
	for i, row := range rows {
		rec := []string{
			strconv.Itoa(i + 1),
			rowString(row, "path"),
			rowString(row, "name"),
			rowString(row, "owner"),
			strconv.FormatBool(rowBool(row, "owner_inherited")),
			strconv.Itoa(rowInt(row, "children")),
			strconv.Itoa(rowInt(row, "dependencies")),
			strconv.Itoa(rowInt(row, "changes")),
			strconv.Itoa(rowInt(row, "files")),
			strconv.Itoa(rowInt(row, "lines")),
			strconv.Itoa(rowInt(row, "todos")),
			rowFloatString(row, "coverage"),
			strconv.Itoa(rowInt(row, "alerts")),
			rowString(row, "last_change"),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeInsightJSON writes the insight rows in JSON format with rank added.
func writeInsightJSON(w io.Writer, rows []map[string]any) error {
	output := make([]map[string]any, len(rows))
	for i, row := range rows {
		ranked := make(map[string]any, len(row)+1)
		for k, v := range row {
			ranked[k] = v
		}
		ranked["rank"] = i + 1
		output[i] = ranked
	}
	return writeJSON(w, output)
}
