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

// ownersCSVHeader is the column order for the owner summary CSV output.
var ownersCSVHeader = []string{
	"owner",
	"features",
	"inherited",
	"lines",
	"alerts",
}

// PrintOwnerSummaries outputs the per-owner aggregates, dispatching based on
// the output format configured.
func PrintOwnerSummaries(summaries []core.OwnerSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summaries)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, ownersCSVHeader, func(cw *csv.Writer) error {
				for _, s := range summaries {
					rec := []string{
						s.Owner,
						strconv.Itoa(s.Features),
						strconv.Itoa(s.Inherited),
						strconv.Itoa(s.Lines),
						strconv.Itoa(s.Alerts),
					}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeOwnersTable(w, summaries)
		}, "Wrote table")
	}
}

// writeOwnersTable generates and writes the human-readable owner table.
func writeOwnersTable(w io.Writer, summaries []core.OwnerSummary) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Owner", "Features", "Inherited", "Lines", "Alerts"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, s := range summaries {
		data = append(data, []string{
			s.Owner,
			strconv.Itoa(s.Features),
			strconv.Itoa(s.Inherited),
			strconv.Itoa(s.Lines),
			strconv.Itoa(s.Alerts),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Showing %d owners\n", len(summaries))
	return err
}
