package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ghostarr/ghostarr/internal/models"
	"github.com/ghostarr/ghostarr/internal/services"
	"github.com/ghostarr/ghostarr/internal/shared"
	ghosttest "github.com/ghostarr/ghostarr/internal/testing"
)

type fakeHistoryAPI struct {
	mu      sync.Mutex
	records map[string]models.HistoryRecord
	fetches int
}

func (f *fakeHistoryAPI) ListHistory(ctx context.Context, filter services.HistoryFilter) ([]models.HistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var records []models.HistoryRecord
	for _, r := range f.records {
		records = append(records, r)
	}
	return records, nil
}

func (f *fakeHistoryAPI) GetHistory(ctx context.Context, id string) (*models.HistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	record, ok := f.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrHistoryNotFound, id)
	}
	return &record, nil
}

type fakeCacher struct {
	mu     sync.Mutex
	stored []string
}

func (f *fakeCacher) Upsert(record models.HistoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = append(f.stored, record.ID)
	return nil
}

func testRecords(ids ...string) map[string]models.HistoryRecord {
	records := make(map[string]models.HistoryRecord, len(ids))
	for _, id := range ids {
		records[id] = models.HistoryRecord{
			ID:     id,
			Type:   models.GenerationManual,
			Status: models.StatusSuccess,
			ProgressLog: []models.Step{
				{Step: "fetch_tautulli", Status: models.StepSuccess},
				{Step: "publish_ghost", Status: models.StepSuccess},
			},
		}
	}
	return records
}

func TestBulkExport(t *testing.T) {
	t.Run("exports every run and writes a manifest", func(t *testing.T) {
		api := &fakeHistoryAPI{records: testRecords("gen-1", "gen-2", "gen-3")}
		engine := NewExportEngine(api, nil)
		dir := t.TempDir()

		result, err := engine.BulkExport(context.Background(), nil, []string{"gen-1", "gen-2", "gen-3"}, BulkExportOpts{
			Format:    "json",
			OutputDir: dir,
			RateLimit: 1000,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.SuccessfulExports != 3 || result.FailedExports != 0 {
			t.Errorf("expected 3 successes, got %+v", result)
		}
		for _, id := range []string{"gen-1", "gen-2", "gen-3"} {
			ghosttest.AssertFileExists(t, filepath.Join(dir, id+".json"))
		}
		ghosttest.AssertFileExists(t, result.ManifestPath)
	})

	t.Run("collects per-run failures without aborting", func(t *testing.T) {
		api := &fakeHistoryAPI{records: testRecords("gen-1")}
		engine := NewExportEngine(api, nil)

		result, err := engine.BulkExport(context.Background(), nil, []string{"gen-1", "missing"}, BulkExportOpts{
			Format:    "json",
			OutputDir: t.TempDir(),
			RateLimit: 1000,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.SuccessfulExports != 1 || result.FailedExports != 1 {
			t.Errorf("expected one success and one failure, got %+v", result)
		}
	})

	t.Run("writes CSV step logs per run", func(t *testing.T) {
		api := &fakeHistoryAPI{records: testRecords("gen-1")}
		engine := NewExportEngine(api, nil)
		dir := t.TempDir()

		result, err := engine.BulkExport(context.Background(), nil, []string{"gen-1"}, BulkExportOpts{
			Format:    "csv",
			OutputDir: dir,
			RateLimit: 1000,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.SuccessfulExports != 1 {
			t.Fatalf("expected 1 success, got %+v", result)
		}
		ghosttest.AssertFileExists(t, filepath.Join(dir, "gen-1_steps.csv"))
		ghosttest.AssertFileExists(t, filepath.Join(dir, "gen-1_metadata.json"))
	})

	t.Run("refreshes the cache while exporting", func(t *testing.T) {
		api := &fakeHistoryAPI{records: testRecords("gen-1", "gen-2")}
		cache := &fakeCacher{}
		engine := NewExportEngine(api, cache)

		_, err := engine.BulkExport(context.Background(), nil, []string{"gen-1", "gen-2"}, BulkExportOpts{
			Format:    "json",
			OutputDir: t.TempDir(),
			RateLimit: 1000,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		cache.mu.Lock()
		defer cache.mu.Unlock()
		if len(cache.stored) != 2 {
			t.Errorf("expected 2 cached runs, got %v", cache.stored)
		}
	})

	t.Run("rejects an empty id list", func(t *testing.T) {
		engine := NewExportEngine(&fakeHistoryAPI{}, nil)
		if _, err := engine.BulkExport(context.Background(), nil, nil, BulkExportOpts{}); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("emits progress updates", func(t *testing.T) {
		api := &fakeHistoryAPI{records: testRecords("gen-1")}
		engine := NewExportEngine(api, nil)
		prog := make(chan ProgressUpdate, 50)

		_, err := engine.BulkExport(context.Background(), prog, []string{"gen-1"}, BulkExportOpts{
			Format:    "json",
			OutputDir: t.TempDir(),
			RateLimit: 1000,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(prog) == 0 {
			t.Error("expected at least one progress update")
		}
	})
}

func TestSyncCache(t *testing.T) {
	t.Run("caches every listed record", func(t *testing.T) {
		api := &fakeHistoryAPI{records: testRecords("gen-1", "gen-2")}
		cache := &fakeCacher{}
		engine := NewExportEngine(api, cache)

		cached, err := engine.SyncCache(context.Background(), nil, services.HistoryFilter{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cached != 2 {
			t.Errorf("expected 2 cached records, got %d", cached)
		}
	})

	t.Run("fails without a cache", func(t *testing.T) {
		engine := NewExportEngine(&fakeHistoryAPI{}, nil)
		if _, err := engine.SyncCache(context.Background(), nil, services.HistoryFilter{}); err == nil {
			t.Fatal("expected an error")
		}
	})
}
