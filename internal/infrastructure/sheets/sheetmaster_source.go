package sheets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
	"github.com/yourusername/aroma-purchase-bot/internal/domain/repository"
)

// SheetMasterConfig SheetMaster API ulanishi
type SheetMasterConfig struct {
	BaseURL string
	APIKey  string
	FileID  string
	Range   string // bo'sh bo'lsa schema.used_range ishlatiladi
}

type sheetMasterUsedRange struct {
	A1 string `json:"a1"`
}

type sheetMasterSchemaResponse struct {
	FileID    uint                  `json:"file_id"`
	Name      string                `json:"name"`
	UsedRange *sheetMasterUsedRange `json:"used_range"`
}

type sheetMasterCellsPoint struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type sheetMasterCellsResponse struct {
	FileID uint                  `json:"file_id"`
	Range  string                `json:"range"`
	Start  sheetMasterCellsPoint `json:"start"`
	End    sheetMasterCellsPoint `json:"end"`
	Values [][]string            `json:"values"`
}

// SheetMasterSource reads the purchase grid through the SheetMaster cells API.
type SheetMasterSource struct {
	cfg    SheetMasterConfig
	client *http.Client
}

// NewSheetMasterSource validates the connection settings.
func NewSheetMasterSource(cfg SheetMasterConfig, timeout time.Duration) (repository.SheetSource, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.FileID = strings.TrimSpace(cfg.FileID)
	cfg.Range = strings.TrimSpace(cfg.Range)

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("SHEETMASTER_API_BASE_URL yo'q (misol: http://localhost:8080)")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("SHEETMASTER_API_KEY yo'q")
	}
	if cfg.FileID == "" {
		return nil, fmt.Errorf("SHEETMASTER_CATALOG_FILE_ID yo'q (SheetMaster fayl ID sini kiriting)")
	}
	return &SheetMasterSource{cfg: cfg, client: httpClient(timeout)}, nil
}

// Name implements repository.SheetSource.
func (s *SheetMasterSource) Name() string { return "sheetmaster" }

// Fetch implements repository.SheetSource.
func (s *SheetMasterSource) Fetch(ctx context.Context) (entity.RawTable, error) {
	rangeA1 := s.cfg.Range
	if rangeA1 == "" {
		schema, err := s.getSchema(ctx)
		if err != nil {
			return entity.RawTable{}, fmt.Errorf("sheetmaster schema: %w", err)
		}
		if schema.UsedRange == nil || strings.TrimSpace(schema.UsedRange.A1) == "" {
			return entity.RawTable{}, nil
		}
		rangeA1 = schema.UsedRange.A1
	}

	cells, err := s.getCells(ctx, rangeA1)
	if err != nil {
		return entity.RawTable{}, fmt.Errorf("sheetmaster cells: %w", err)
	}
	return tableFromGrid(cells.Values), nil
}

func (s *SheetMasterSource) getSchema(ctx context.Context) (sheetMasterSchemaResponse, error) {
	var out sheetMasterSchemaResponse
	u := fmt.Sprintf("%s/api/v1/files/%s/schema", s.cfg.BaseURL, url.PathEscape(s.cfg.FileID))
	if err := doJSON(ctx, s.client, u, s.cfg.APIKey, &out); err != nil {
		return sheetMasterSchemaResponse{}, err
	}
	return out, nil
}

func (s *SheetMasterSource) getCells(ctx context.Context, rangeA1 string) (sheetMasterCellsResponse, error) {
	var out sheetMasterCellsResponse

	q := url.Values{}
	q.Set("range", strings.TrimSpace(rangeA1))
	q.Set("format", "grid")
	q.Set("value", "raw")
	u := fmt.Sprintf("%s/api/v1/files/%s/cells?%s", s.cfg.BaseURL, url.PathEscape(s.cfg.FileID), q.Encode())

	if err := doJSON(ctx, s.client, u, s.cfg.APIKey, &out); err != nil {
		return sheetMasterCellsResponse{}, err
	}
	return out, nil
}
