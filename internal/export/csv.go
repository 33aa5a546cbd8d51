package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"opengov/api/internal/report"
)

var csvHeader = []string{"Title", "Category", "Status", "Location", "Citizen", "Created At", "Updated At"}

// CSV renders reports as an RFC 4180 file, one row per report, in the order
// given.
func CSV(reports []report.Report) (*Result, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range reports {
		row := []string{
			r.Title,
			string(r.Category),
			string(r.Status),
			r.Location,
			r.CitizenName,
			r.CreatedAt.Format(time.RFC3339),
			r.UpdatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return &Result{
		Data:     buf.Bytes(),
		Filename: "reports.csv",
		MimeType: "text/csv; charset=utf-8",
	}, nil
}
