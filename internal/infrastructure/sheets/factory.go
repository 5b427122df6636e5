package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/repository"
)

// Source kinds accepted by SHEET_SOURCE
const (
	KindCSV         = "csv"
	KindGoogleAPI   = "gsheets"
	KindXLSX        = "xlsx"
	KindSheetMaster = "sheetmaster"
)

// Options everything any source kind may need
type Options struct {
	Kind        string
	SheetURL    string
	GoogleKey   string
	Range       string
	XLSXPath    string
	XLSXSheet   string
	SheetMaster SheetMasterConfig
	Timeout     time.Duration
}

// NewSource picks the transport named by opts.Kind (csv by default).
func NewSource(ctx context.Context, opts Options) (repository.SheetSource, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Kind)) {
	case "", KindCSV:
		return NewCSVSource(opts.SheetURL, opts.Timeout)
	case KindGoogleAPI:
		return NewGoogleSheetsSource(ctx, GoogleSheetsConfig{
			SheetURL: opts.SheetURL,
			APIKey:   opts.GoogleKey,
			Range:    opts.Range,
		}, opts.Timeout)
	case KindXLSX:
		return NewXLSXSource(opts.XLSXPath, opts.XLSXSheet)
	case KindSheetMaster:
		return NewSheetMasterSource(opts.SheetMaster, opts.Timeout)
	default:
		return nil, fmt.Errorf("noma'lum SHEET_SOURCE: %q", opts.Kind)
	}
}
