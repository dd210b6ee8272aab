package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/featuremap/featuremap/core"
	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/schema"
)

// depsCSVHeader is the column order for the dependency CSV output.
var depsCSVHeader = []string{
	"feature_path",
	"feature_name",
	"target",
	"type",
	"count",
	"files",
	"alerts",
}

// PrintDependencyReports outputs the grouped dependency reports, dispatching
// based on the output format configured.
func PrintDependencyReports(reports []core.DependencyReport, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, reports)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, depsCSVHeader, func(cw *csv.Writer) error {
				return writeDepsCSVRows(cw, reports)
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDepsTable(w, reports, cfg)
		}, "Wrote table")
	}
}

// writeDepsTable generates and writes the human-readable dependency table.
func writeDepsTable(w io.Writer, reports []core.DependencyReport, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Feature", "Target", "Type", "Count", "Files", "Alerts"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxPathWidth := getMaxTablePathWidth(cfg)
	totalAlerts := 0

	var data [][]string
	for _, report := range reports {
		for _, insight := range report.Insights {
			totalAlerts += len(insight.Alerts)
			data = append(data, []string{
				contract.TruncatePath(report.FeaturePath, maxPathWidth),
				insight.Group.Feature,
				string(insight.Group.Type),
				strconv.Itoa(insight.Group.Count),
				strconv.Itoa(insight.Group.DistinctTargetFiles()),
				contract.GetAlertLabel(insight.Alerts, cfg.UseColors),
			})
		}
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Showing %d features (alerting groups: %d)\n", len(reports), totalAlerts)
	return err
}

// writeDepsCSVRows writes the dependency reports in CSV format.
func writeDepsCSVRows(w *csv.Writer, reports []core.DependencyReport) error {
	for _, report := range reports {
		for _, insight := range report.Insights {
			rec := []string{
				report.FeaturePath,
				report.FeatureName,
				insight.Group.Feature,
				string(insight.Group.Type),
				strconv.Itoa(insight.Group.Count),
				strconv.Itoa(insight.Group.DistinctTargetFiles()),
				contract.GetAlertLabel(insight.Alerts, false),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
