package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sdejongh/docrecon/pkg/models"
)

// WriteUnmatchedReport writes the unmatched file list to path.
// Format can be "human" or "json". Nothing is written when every file matched.
func WriteUnmatchedReport(report *models.ReconciliationReport, path string, format string) error {
	if len(report.Unmatched) == 0 {
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create unmatched report: %w", err)
	}
	defer file.Close()

	switch format {
	case "json":
		err = writeUnmatchedJSON(report, file)
	default:
		err = writeUnmatchedHuman(report, file)
	}
	if err != nil {
		return fmt.Errorf("failed to write unmatched report: %w", err)
	}
	return file.Close()
}

func writeUnmatchedHuman(report *models.ReconciliationReport, w io.Writer) error {
	title := fmt.Sprintf("Unmatched Files (%d)", len(report.Unmatched))
	fmt.Fprintf(w, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Operation: %s\n", report.OperationID)
	fmt.Fprintf(w, "Log:       %s\n", report.LogPath)
	fmt.Fprintf(w, "Directory: %s\n\n", report.DirPath)

	for _, f := range report.Unmatched {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", f.Name, formatBytes(f.Size)); err != nil {
			return err
		}
	}
	return nil
}

func writeUnmatchedJSON(report *models.ReconciliationReport, w io.Writer) error {
	doc := struct {
		Generated   string         `json:"generated"`
		OperationID string         `json:"operation_id"`
		LogPath     string         `json:"log_path"`
		DirPath     string         `json:"dir_path"`
		TotalCount  int            `json:"total_count"`
		TotalBytes  int64          `json:"total_bytes"`
		Files       []JSONFileData `json:"files"`
	}{
		Generated:   time.Now().Format(time.RFC3339),
		OperationID: report.OperationID,
		LogPath:     report.LogPath,
		DirPath:     report.DirPath,
		TotalCount:  len(report.Unmatched),
		TotalBytes:  report.UnmatchedTotals.Bytes,
		Files:       filesData(report.Unmatched),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
