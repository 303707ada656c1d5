package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/jobdeck/jobdeck/internal/models"
)

type CSVExporter struct {
	filename string
}

func NewCSVExporter(filename string) *CSVExporter {
	return &CSVExporter{filename: filename}
}

// ExportApplications writes the user's applications as a CSV spreadsheet.
func (e *CSVExporter) ExportApplications(applications []models.Application) error {
	file, err := os.Create(e.filename)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{
		"Company",
		"Position",
		"Status",
		"Applied",
		"Interview",
		"Offer",
		"Rejected",
		"Source URL",
		"Notes",
	}

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write CSV headers: %w", err)
	}

	for _, app := range applications {
		record := []string{
			app.Company,
			app.Position,
			string(app.Status),
			app.AppliedAt.Format("2006-01-02"),
			formatDate(app.InterviewDate),
			formatDate(app.OfferDate),
			formatDate(app.RejectionDate),
			app.SourceURL,
			app.Notes,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write CSV record: %w", err)
		}
	}

	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
