package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/schema"
)

// snapshotsCSVHeader is the column order for the snapshot history CSV output.
var snapshotsCSVHeader = []string{
	"snapshot_id",
	"source",
	"content_hash",
	"start_time",
	"duration_ms",
	"feature_count",
}

// PrintSnapshotRecords outputs the recorded snapshot history, newest first.
func PrintSnapshotRecords(records []schema.SnapshotRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, snapshotsCSVHeader, func(cw *csv.Writer) error {
				for _, r := range records {
					if err := cw.Write(snapshotCSVRow(r)); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSnapshotsTable(w, records)
		}, "Wrote table")
	}
}

// writeSnapshotsTable generates and writes the human-readable snapshot table.
func writeSnapshotsTable(w io.Writer, records []schema.SnapshotRecord) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Source", "Start", "Duration", "Features"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range records {
		duration := contract.NoneValue
		if r.DurationMs != nil {
			duration = fmt.Sprintf("%dms", *r.DurationMs)
		}
		data = append(data, []string{
			strconv.FormatInt(r.SnapshotID, 10),
			r.Source,
			r.StartTime.Format(contract.DateTimeFormat),
			duration,
			strconv.Itoa(int(r.FeatureCount)),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Showing %d snapshots\n", len(records))
	return err
}

// snapshotCSVRow formats one snapshot record for CSV output.
func snapshotCSVRow(r schema.SnapshotRecord) []string {
	duration := ""
	if r.DurationMs != nil {
		duration = strconv.Itoa(int(*r.DurationMs))
	}
	return []string{
		strconv.FormatInt(r.SnapshotID, 10),
		r.Source,
		r.ContentHash,
		r.StartTime.Format(contract.DateTimeFormat),
		duration,
		strconv.Itoa(int(r.FeatureCount)),
	}
}
