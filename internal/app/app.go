// Package app wires the transformation core, the stores, and the output
// writers into the operations the CLI exposes.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/featuremap/featuremap/core"
	"github.com/featuremap/featuremap/core/query"
	"github.com/featuremap/featuremap/core/tabsort"
	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/internal/feed"
	"github.com/featuremap/featuremap/internal/iocache"
	"github.com/featuremap/featuremap/internal/outwriter"
	"github.com/featuremap/featuremap/internal/web"
)

// loadDocument fetches the configured source, falling back to the last
// cached payload when the fetch fails, and records the load into the
// snapshot store when one is configured.
func loadDocument(cfg *contract.Config, mgr contract.StoreManager) (*feed.Snapshot, time.Duration, error) {
	var cache contract.DocumentCache
	if mgr != nil {
		cache = mgr.GetDocumentCache()
	}

	start := time.Now()
	snapshot, err := feed.Load(cfg.Source, cache)
	if err != nil {
		cached, cacheErr := feed.LoadCached(cfg.Source, cache)
		if cacheErr != nil {
			return nil, 0, err
		}
		contract.LogWarn("using cached document", err)
		snapshot = cached
	}
	duration := time.Since(start)

	if mgr != nil {
		if err := feed.RecordSnapshot(mgr.GetSnapshotStore(), snapshot); err != nil {
			contract.LogWarn("recording snapshot", err)
		}
	}

	return snapshot, duration, nil
}

// buildRows runs the full insight pipeline: flatten, owner filter, smart
// query, sort, limit.
func buildRows(cfg *contract.Config, snapshot *feed.Snapshot) []map[string]any {
	rows := core.BuildInsightRows(snapshot.Features)

	if cfg.OwnerFilter != "" {
		filtered := rows[:0]
		for _, row := range rows {
			owner, _ := row["owner"].(string)
			if strings.EqualFold(owner, cfg.OwnerFilter) {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	if cfg.Query != "" {
		rows = query.Filter(rows, query.Parse(cfg.Query), cfg.SearchFields)
	}

	rows = tabsort.New(rows, cfg.Sort).Sorted()

	if cfg.ResultLimit > 0 && cfg.ResultLimit < len(rows) {
		rows = rows[:cfg.ResultLimit]
	}
	return rows
}

// ExecuteFeatures lists the flattened feature inventory.
func ExecuteFeatures(cfg *contract.Config, mgr contract.StoreManager) error {
	snapshot, duration, err := loadDocument(cfg, mgr)
	if err != nil {
		return err
	}
	rows := buildRows(cfg, snapshot)
	return outwriter.NewOutWriter().WriteInsights(rows, cfg, duration)
}

// ExecuteDeps prints grouped dependency reports, for one feature or all.
func ExecuteDeps(cfg *contract.Config, mgr contract.StoreManager, featurePath string) error {
	snapshot, _, err := loadDocument(cfg, mgr)
	if err != nil {
		return err
	}

	reports := core.BuildDependencyReports(snapshot.Features, cfg.TypeFilter)
	if featurePath != "" {
		filtered := reports[:0]
		for _, report := range reports {
			if report.FeaturePath == featurePath {
				filtered = append(filtered, report)
			}
		}
		if len(filtered) == 0 {
			return fmt.Errorf("no dependencies found for feature %q", featurePath)
		}
		reports = filtered
	}

	return outwriter.NewOutWriter().WriteDependencies(reports, cfg)
}

// ExecuteOwners prints the per-owner aggregates.
func ExecuteOwners(cfg *contract.Config, mgr contract.StoreManager) error {
	snapshot, _, err := loadDocument(cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteOwners(core.BuildOwnerSummaries(snapshot.Features), cfg)
}

// ExecuteTree prints the nested feature hierarchy.
func ExecuteTree(cfg *contract.Config, mgr contract.StoreManager) error {
	snapshot, _, err := loadDocument(cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteTree(snapshot.Features, cfg)
}

// ExecuteCheck validates the loaded document. The returned flag reports
// whether all checks passed.
func ExecuteCheck(cfg *contract.Config, mgr contract.StoreManager) (bool, error) {
	snapshot, _, err := loadDocument(cfg, mgr)
	if err != nil {
		return false, err
	}
	result := core.RunChecks(snapshot.Features)
	if err := outwriter.NewOutWriter().WriteChecks(result, cfg); err != nil {
		return false, err
	}
	return result.Passed(), nil
}

// ExecuteServe loads the document and serves it over HTTP until the context
// is cancelled.
func ExecuteServe(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	snapshot, _, err := loadDocument(cfg, mgr)
	if err != nil {
		return err
	}

	var cache contract.DocumentCache
	if mgr != nil {
		cache = mgr.GetDocumentCache()
	}

	srv := web.NewServer(cfg, snapshot, cache)
	if cfg.Watch {
		go func() {
			if err := srv.Watch(ctx); err != nil {
				contract.LogWarn("watching source", err)
			}
		}()
	}

	fmt.Printf("Serving %s on http://%s\n", cfg.Source, cfg.ServeAddr)
	return srv.Run(ctx)
}

// ExecuteSnapshotsList prints the recorded snapshot history.
func ExecuteSnapshotsList(cfg *contract.Config, mgr contract.StoreManager) error {
	store := mgr.GetSnapshotStore()
	if store == nil {
		return fmt.Errorf("snapshot tracking is not configured")
	}
	records, err := store.ListSnapshots(cfg.ResultLimit)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSnapshots(records, cfg)
}

// ExecuteSnapshotsRecord loads the source once and records it into the
// snapshot store.
func ExecuteSnapshotsRecord(cfg *contract.Config, mgr contract.StoreManager) error {
	store := mgr.GetSnapshotStore()
	if store == nil {
		return fmt.Errorf("snapshot tracking is not configured")
	}

	var cache contract.DocumentCache
	if mgr != nil {
		cache = mgr.GetDocumentCache()
	}
	snapshot, err := feed.Load(cfg.Source, cache)
	if err != nil {
		return err
	}
	if err := feed.RecordSnapshot(store, snapshot); err != nil {
		return err
	}
	fmt.Printf("Recorded snapshot of %s (%d features)\n", snapshot.Source, snapshot.FeatureCount())
	return nil
}

// ExecuteSnapshotsExport exports the snapshot history to Parquet files.
func ExecuteSnapshotsExport(cfg *contract.Config) error {
	return iocache.ExecuteSnapshotExport(cfg.OutputFile)
}
