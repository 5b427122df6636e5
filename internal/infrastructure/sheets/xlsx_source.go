package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
	"github.com/yourusername/aroma-purchase-bot/internal/domain/repository"
)

// XLSXSource reads a local workbook export. The file is reopened on every Fetch.
type XLSXSource struct {
	path  string
	sheet string
}

// NewXLSXSource sheet bo'sh bo'lsa birinchi varaq o'qiladi
func NewXLSXSource(path, sheet string) (repository.SheetSource, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("XLSX_PATH bo'sh")
	}
	return &XLSXSource{path: path, sheet: strings.TrimSpace(sheet)}, nil
}

// Name implements repository.SheetSource.
func (s *XLSXSource) Name() string { return "xlsx" }

// Fetch implements repository.SheetSource.
func (s *XLSXSource) Fetch(ctx context.Context) (entity.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return entity.RawTable{}, err
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return entity.RawTable{}, fmt.Errorf("xlsx open: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := s.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return entity.RawTable{}, fmt.Errorf("xlsx read %q: %w", sheet, err)
	}
	return tableFromGrid(rows), nil
}
