package formatter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ghostarr/ghostarr/internal/models"
	ghosttest "github.com/ghostarr/ghostarr/internal/testing"
)

func sampleRun() *models.HistoryRecord {
	items := 42
	return &models.HistoryRecord{
		ID:              "gen-1",
		Type:            models.GenerationManual,
		Status:          models.StatusSuccess,
		TemplateID:      "tmpl-1",
		GhostPostURL:    "https://blog.example.com/p/august",
		ItemsCount:      42,
		DurationSeconds: 150.5,
		ProgressLog: []models.Step{
			{Step: "fetch_tautulli", Status: models.StepSuccess, Message: "Fetched 42 items", ItemsCount: &items},
			{Step: "fetch_romm", Status: models.StepSkipped, Message: "ROMM disabled"},
			{Step: "publish_ghost", Status: models.StepSuccess, Message: "Published"},
		},
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleRun())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse generated CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 steps, got %d rows", len(rows))
	}
	if rows[0][0] != "Step" {
		t.Errorf("expected Step header, got %s", rows[0][0])
	}
	if rows[1][3] != "42" {
		t.Errorf("expected items count in row, got %q", rows[1][3])
	}
	if rows[2][1] != "skipped" {
		t.Errorf("expected skipped status, got %q", rows[2][1])
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(sampleRun())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	md := string(data)
	for _, want := range []string{
		"# Generation gen-1",
		"**Status**: success",
		"**Post**: https://blog.example.com/p/august",
		"## Steps",
		"1. [success] fetch_tautulli: Fetched 42 items (42 items)",
		"2. [skipped] fetch_romm",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown to contain %q", want)
		}
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(sampleRun())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "Generation: gen-1") {
		t.Errorf("expected run id in text output")
	}
	if !strings.Contains(text, "2. fetch_romm - skipped") {
		t.Errorf("expected step lines, got:\n%s", text)
	}
}

func TestWriteExports(t *testing.T) {
	t.Run("WriteCSVExport creates steps and metadata files", func(t *testing.T) {
		dir := t.TempDir()
		base := filepath.Join(dir, "gen-1")

		result, err := WriteCSVExport(sampleRun(), base)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		ghosttest.AssertFileExists(t, result.StepsFile)
		ghosttest.AssertFileExists(t, result.MetadataFile)

		metadata := ghosttest.MustReadFile(t, result.MetadataFile)
		if strings.Contains(metadata, "progress_log") {
			t.Error("expected metadata JSON to omit the step log")
		}
	})

	t.Run("WriteMarkdownExport creates a README in the run directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "gen-1")

		result, err := WriteMarkdownExport(sampleRun(), dir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Directory != dir {
			t.Errorf("expected directory %s, got %s", dir, result.Directory)
		}
		ghosttest.AssertFileExists(t, filepath.Join(dir, "README.md"))
	})

	t.Run("WriteTextExport defaults the filename", func(t *testing.T) {
		wd := ghosttest.MustGetwd(t)
		ghosttest.MustChdir(t, t.TempDir())
		defer ghosttest.MustChdir(t, wd)

		path, err := WriteTextExport(sampleRun(), "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if path != "gen-1_run.txt" {
			t.Errorf("expected default filename, got %s", path)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected file to exist: %v", err)
		}
	})
}
