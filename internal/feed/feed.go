// Package feed loads feature documents from local files or HTTP endpoints
// and prepares them for the transformation core.
package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/featuremap/featuremap/core"
	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/schema"
)

// documentVersion is bumped whenever the decoded document shape changes in a
// way that invalidates cached payloads.
const documentVersion = 1

// fetchTimeout bounds remote document fetches.
const fetchTimeout = 30 * time.Second

// Snapshot is a fully loaded and indexed feature document.
type Snapshot struct {
	Source      string
	ContentHash string
	LoadedAt    time.Time
	Features    []*schema.Feature
}

// FeatureCount returns the total number of features across the forest.
func (s *Snapshot) FeatureCount() int {
	return len(core.Flatten(s.Features))
}

// Load reads the source, decodes the feature forest, and attaches parent
// back-references. When a document cache is provided, raw payloads are
// stored keyed by source so repeat loads of an unchanged document skip the
// fetch entirely for remote sources.
func Load(source string, cache contract.DocumentCache) (*Snapshot, error) {
	raw, err := fetch(source)
	if err != nil {
		return nil, err
	}

	snapshot, err := Decode(source, raw)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		key := cacheKey(source)
		if err := cache.Set(key, raw, documentVersion, snapshot.LoadedAt.Unix()); err != nil {
			contract.LogWarn("caching document", err)
		}
	}

	return snapshot, nil
}

// LoadCached returns the last cached payload for a source, decoded. It
// reports a miss as an error; callers fall back to Load.
func LoadCached(source string, cache contract.DocumentCache) (*Snapshot, error) {
	if cache == nil {
		return nil, fmt.Errorf("no document cache configured")
	}
	raw, version, _, err := cache.Get(cacheKey(source))
	if err != nil {
		return nil, fmt.Errorf("cache miss for %s: %w", source, err)
	}
	if version != documentVersion {
		return nil, fmt.Errorf("cached document version %d is stale", version)
	}
	return Decode(source, raw)
}

// Decode parses a raw features payload and wires the tree. The document is
// an array of root features.
func Decode(source string, raw []byte) (*Snapshot, error) {
	var features []*schema.Feature
	if err := json.Unmarshal(raw, &features); err != nil {
		return nil, fmt.Errorf("failed to decode features document from %s: %w", source, err)
	}

	core.AttachParents(features)

	sum := sha256.Sum256(raw)
	return &Snapshot{
		Source:      source,
		ContentHash: hex.EncodeToString(sum[:]),
		LoadedAt:    time.Now(),
		Features:    features,
	}, nil
}

// fetch reads the raw payload from a local file or an HTTP endpoint.
func fetch(source string) ([]byte, error) {
	if contract.IsRemoteSource(source) {
		client := &http.Client{Timeout: fetchTimeout}
		resp, err := client.Get(source)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, source)
		}
		return io.ReadAll(resp.Body)
	}

	raw, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return raw, nil
}

func cacheKey(source string) string {
	return "document:" + source
}

// RecordSnapshot writes one load into the snapshot store: the run record
// plus a metrics row per feature. A nil or disabled store is a no-op.
func RecordSnapshot(store contract.SnapshotStore, snapshot *Snapshot) error {
	if store == nil {
		return nil
	}

	snapshotID, err := store.BeginSnapshot(snapshot.Source, snapshot.ContentHash, snapshot.LoadedAt)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot: %w", err)
	}

	depMap := core.BuildDependencyMap(snapshot.Features)
	nameToPath := core.BuildNameToPathMap(snapshot.Features)

	flat := core.Flatten(snapshot.Features)
	for _, f := range flat {
		if err := store.RecordFeatureMetrics(buildMetricsRecord(snapshotID, f, depMap, nameToPath)); err != nil {
			return fmt.Errorf("failed to record metrics for %s: %w", f.Path, err)
		}
	}

	if err := store.EndSnapshot(snapshotID, time.Now(), len(flat)); err != nil {
		return fmt.Errorf("failed to end snapshot: %w", err)
	}
	return nil
}

func buildMetricsRecord(snapshotID int64, f *schema.Feature, depMap map[string]map[string]struct{}, nameToPath map[string]string) schema.FeatureMetricsRecord {
	record := schema.FeatureMetricsRecord{
		SnapshotID:     snapshotID,
		Path:           f.Path,
		Name:           f.Name,
		Owner:          core.ResolveOwner(f),
		OwnerInherited: f.OwnerInherited || core.OwnerIsInherited(f),
		Commits:        int32(len(f.Changes)),
		Dependencies:   int32(len(f.Dependencies)),
	}

	for _, group := range core.GroupDependencies(f.Dependencies) {
		if len(core.DetectAlerts(group, f.Path, depMap, nameToPath)) > 0 {
			record.Alerts++
		}
	}

	if f.Stats != nil {
		if f.Stats.FilesCount != nil {
			record.Files = int32(*f.Stats.FilesCount)
		}
		if f.Stats.LinesCount != nil {
			record.Lines = int32(*f.Stats.LinesCount)
		}
		if f.Stats.TodosCount != nil {
			record.Todos = int32(*f.Stats.TodosCount)
		}
		if f.Stats.Coverage != nil {
			percent := f.Stats.Coverage.LineCoveragePercent
			record.CoveragePercent = &percent
		}
	}

	return record
}
