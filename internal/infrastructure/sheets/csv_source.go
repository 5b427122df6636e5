package sheets

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
	"github.com/yourusername/aroma-purchase-bot/internal/domain/repository"
)

const maxCSVBytes = 25 << 20

// CSVSource downloads a CSV export (Google Sheets "export?format=csv" or any
// plain CSV URL) on every Fetch.
type CSVSource struct {
	url      string
	client   *http.Client
	maxBytes int64
}

// NewCSVSource builds a source from a share link or a direct CSV URL.
func NewCSVSource(sheetURL string, timeout time.Duration) (repository.SheetSource, error) {
	target := strings.TrimSpace(sheetURL)
	if strings.Contains(target, "docs.google.com/spreadsheets/") && !strings.Contains(target, "/export") {
		converted, err := CSVExportURL(target)
		if err != nil {
			return nil, err
		}
		target = converted
	}
	if target == "" {
		return nil, fmt.Errorf("SHEET_URL bo'sh")
	}
	return &CSVSource{url: target, client: httpClient(timeout), maxBytes: maxCSVBytes}, nil
}

// Name implements repository.SheetSource.
func (s *CSVSource) Name() string { return "csv" }

// Fetch implements repository.SheetSource.
func (s *CSVSource) Fetch(ctx context.Context) (entity.RawTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return entity.RawTable{}, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return entity.RawTable{}, fmt.Errorf("csv fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return entity.RawTable{}, statusError(resp)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return entity.RawTable{}, fmt.Errorf("csv read: %w", err)
	}
	if int64(len(body)) > s.maxBytes {
		return entity.RawTable{}, fmt.Errorf("csv export is larger than %d bytes", s.maxBytes)
	}
	return parseCSV(bytes.NewReader(body))
}

func parseCSV(r io.Reader) (entity.RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	grid, err := cr.ReadAll()
	if err != nil {
		return entity.RawTable{}, fmt.Errorf("csv parse: %w", err)
	}
	return tableFromGrid(grid), nil
}
