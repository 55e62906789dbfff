// package formatter renders sync run reports in various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/desertthunder/mixsync/internal/tasks"
)

// reportRow flattens one entry result for tabular output.
func reportRow(res tasks.EntryResult) []string {
	errText := ""
	if res.Err != nil {
		errText = res.Err.Error()
	}
	return []string{
		res.Title,
		res.State.String(),
		res.Decision.String(),
		res.PlaylistID,
		strconv.Itoa(res.ResolvedCount),
		strconv.Itoa(res.QueryCount),
		errText,
	}
}

// ReportToCSV converts a run result to CSV with one row per feed entry.
func ReportToCSV(result *tasks.SyncRunResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Title", "State", "Decision", "PlaylistID", "Resolved", "Queries", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, res := range result.Entries {
		if err := writer.Write(reportRow(res)); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ReportToMarkdown converts a run result to a Markdown summary.
func ReportToMarkdown(result *tasks.SyncRunResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Sync Run %s\n\n", result.RunID))
	buf.WriteString(fmt.Sprintf("**Started**: %s\n", result.StartedAt.Format(time.RFC3339)))
	buf.WriteString(fmt.Sprintf("**Finished**: %s\n", result.FinishedAt.Format(time.RFC3339)))
	buf.WriteString(fmt.Sprintf("**Entries**: %d (published %d, skipped %d, failed %d)\n\n",
		len(result.Entries), result.Published, result.Skipped, result.Failed))

	buf.WriteString("## Entries\n\n")
	for i, res := range result.Entries {
		buf.WriteString(fmt.Sprintf("%d. **%s** - %s", i+1, res.Title, res.State))
		if res.QueryCount > 0 {
			buf.WriteString(fmt.Sprintf(" (%d/%d tracks)", res.ResolvedCount, res.QueryCount))
		}
		if res.Err != nil {
			buf.WriteString(fmt.Sprintf(": %v", res.Err))
		}
		buf.WriteString("\n")
		for _, warning := range res.Warnings {
			buf.WriteString(fmt.Sprintf("   - %s\n", warning))
		}
	}

	return buf.Bytes(), nil
}

// ReportToText converts a run result to plain text.
func ReportToText(result *tasks.SyncRunResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Run: %s\n", result.RunID))
	buf.WriteString(fmt.Sprintf("Entries: %d  Published: %d  Skipped: %d  Failed: %d\n\n",
		len(result.Entries), result.Published, result.Skipped, result.Failed))

	for i, res := range result.Entries {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s", i+1, res.State, res.Title))
		if res.QueryCount > 0 {
			buf.WriteString(fmt.Sprintf(" (%d/%d tracks)", res.ResolvedCount, res.QueryCount))
		}
		if res.Err != nil {
			buf.WriteString(fmt.Sprintf(" error: %v", res.Err))
		}
		buf.WriteString("\n")
		for _, warning := range res.Warnings {
			buf.WriteString(fmt.Sprintf("   warning: %s\n", warning))
		}
	}

	return buf.Bytes(), nil
}

// WriteReport renders the result in the named format and writes it to path.
// Supported formats are "csv", "markdown", and "text".
func WriteReport(result *tasks.SyncRunResult, format, path string) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case "csv":
		data, err = ReportToCSV(result)
	case "markdown", "md":
		data, err = ReportToMarkdown(result)
	case "text", "txt":
		data, err = ReportToText(result)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
