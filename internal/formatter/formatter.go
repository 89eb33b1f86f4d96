// package formatter provides functions to export generation runs to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/ghostarr/ghostarr/internal/models"
	"github.com/ghostarr/ghostarr/internal/shared"
)

// ExportToCSV converts a run's step log to CSV with columns: Step, Status, Message, Items, Started, Completed, Error
func ExportToCSV(record *models.HistoryRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Step", "Status", "Message", "Items", "Started", "Completed", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, step := range record.ProgressLog {
		items := ""
		if step.ItemsCount != nil {
			items = strconv.Itoa(*step.ItemsCount)
		}
		row := []string{
			step.Step,
			string(step.Status),
			step.Message,
			items,
			step.StartedAt,
			step.CompletedAt,
			step.Error,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a run to Markdown with a summary block and step table
func ExportToMarkdown(record *models.HistoryRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Generation %s\n\n", record.ID))
	buf.WriteString(fmt.Sprintf("**Status**: %s\n", record.Status))
	buf.WriteString(fmt.Sprintf("**Type**: %s\n", record.Type))
	if record.TemplateID != "" {
		buf.WriteString(fmt.Sprintf("**Template**: %s\n", record.TemplateID))
	}
	buf.WriteString(fmt.Sprintf("**Items**: %d\n", record.ItemsCount))
	if record.DurationSeconds > 0 {
		buf.WriteString(fmt.Sprintf("**Duration**: %.1fs\n", record.DurationSeconds))
	}
	if record.GhostPostURL != "" {
		buf.WriteString(fmt.Sprintf("**Post**: %s\n", record.GhostPostURL))
	}
	if record.ErrorMessage != "" {
		buf.WriteString(fmt.Sprintf("**Error**: %s\n", record.ErrorMessage))
	}
	buf.WriteString("\n## Steps\n\n")

	for i, step := range record.ProgressLog {
		line := fmt.Sprintf("%d. [%s] %s", i+1, step.Status, step.Step)
		if step.Message != "" {
			line += fmt.Sprintf(": %s", step.Message)
		}
		if step.ItemsCount != nil {
			line += fmt.Sprintf(" (%d items)", *step.ItemsCount)
		}
		if step.Error != "" {
			line += fmt.Sprintf(" [error: %s]", step.Error)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a run to plain text format
func ExportToText(record *models.HistoryRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Generation: %s\n", record.ID))
	buf.WriteString(fmt.Sprintf("Status: %s\n", record.Status))
	if record.GhostPostURL != "" {
		buf.WriteString(fmt.Sprintf("Post: %s\n", record.GhostPostURL))
	}
	if record.ErrorMessage != "" {
		buf.WriteString(fmt.Sprintf("Error: %s\n", record.ErrorMessage))
	}
	buf.WriteString(fmt.Sprintf("Steps: %d\n\n", len(record.ProgressLog)))

	for i, step := range record.ProgressLog {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, step.Step, step.Status))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of a run without its step log
func ToMetadataJSON(record models.HistoryRecord) ([]byte, error) {
	record.ProgressLog = nil
	return shared.MarshalJSON(record, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	StepsFile    string
	MetadataFile string
}

// WriteCSVExport exports a run to CSV format with an accompanying metadata JSON file.
//
// Defaults to the run ID as the base filename & creates {base}_steps.csv and {base}_metadata.json
func WriteCSVExport(record *models.HistoryRecord, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = record.ID
	}

	csvData, err := ExportToCSV(record)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	stepsFile := baseFilepath + "_steps.csv"
	if err := os.WriteFile(stepsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(*record)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		StepsFile:    stepsFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
}

// WriteMarkdownExport exports a run to Markdown in a dedicated directory.
//
// Directory name defaults to the run ID. Creates {dir}/README.md.
func WriteMarkdownExport(record *models.HistoryRecord, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = record.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(record)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{mdFile},
	}, nil
}

// WriteTextExport exports a run to plain text format.
//
// Defaults to {record.ID}_run.txt as the filename.
func WriteTextExport(record *models.HistoryRecord, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_run.txt", record.ID)
	}

	textData, err := ExportToText(record)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteBulkExportManifest writes a JSON summary of a bulk export run.
func WriteBulkExportManifest(manifest any, path string) error {
	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return fmt.Errorf("failed to generate manifest JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
