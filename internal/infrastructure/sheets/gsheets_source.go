package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
	"github.com/yourusername/aroma-purchase-bot/internal/domain/repository"
)

// GoogleSheetsConfig Sheets API v4 ulanishi (API key bilan, faqat o'qish)
type GoogleSheetsConfig struct {
	SheetURL string
	APIKey   string
	Range    string
	Endpoint string // testlar uchun
}

// GoogleSheetsSource reads formatted cell values through the Sheets API.
type GoogleSheetsSource struct {
	spreadsheetID string
	rangeA1       string
	timeout       time.Duration
	svc           *sheetsapi.Service
}

// NewGoogleSheetsSource builds the API client once; every Fetch is a single Values.Get call.
func NewGoogleSheetsSource(ctx context.Context, cfg GoogleSheetsConfig, timeout time.Duration) (repository.SheetSource, error) {
	id, err := SpreadsheetID(cfg.SheetURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY bo'sh")
	}
	rangeA1 := strings.TrimSpace(cfg.Range)
	if rangeA1 == "" {
		rangeA1 = "A1:Z"
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if ep := strings.TrimSpace(cfg.Endpoint); ep != "" {
		opts = append(opts, option.WithEndpoint(ep))
	}
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &GoogleSheetsSource{spreadsheetID: id, rangeA1: rangeA1, timeout: timeout, svc: svc}, nil
}

// Name implements repository.SheetSource.
func (s *GoogleSheetsSource) Name() string { return "gsheets" }

// Fetch implements repository.SheetSource.
func (s *GoogleSheetsSource) Fetch(ctx context.Context) (entity.RawTable, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.rangeA1).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return entity.RawTable{}, fmt.Errorf("sheets values.get: %w", err)
	}

	grid := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = fmt.Sprint(v)
			}
		}
		grid[i] = cells
	}
	return tableFromGrid(grid), nil
}
