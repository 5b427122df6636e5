package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/aroma-purchase-bot/internal/catalog"
	"github.com/yourusername/aroma-purchase-bot/internal/domain/constants"
	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
	"github.com/yourusername/aroma-purchase-bot/internal/infrastructure/sheets"
)

// sourceFlags where the spreadsheet comes from; defaults follow the bot's env
type sourceFlags struct {
	kind    string
	url     string
	apiKey  string
	rng     string
	xlsx    string
	sheet   string
	timeout time.Duration
	user    string
}

func (f *sourceFlags) options() sheets.Options {
	return sheets.Options{
		Kind:      f.kind,
		SheetURL:  f.url,
		GoogleKey: f.apiKey,
		Range:     f.rng,
		XLSXPath:  f.xlsx,
		XLSXSheet: f.sheet,
		SheetMaster: sheets.SheetMasterConfig{
			BaseURL: os.Getenv("SHEETMASTER_API_BASE_URL"),
			APIKey:  os.Getenv("SHEETMASTER_API_KEY"),
			FileID:  os.Getenv("SHEETMASTER_CATALOG_FILE_ID"),
			Range:   f.rng,
		},
		Timeout: f.timeout,
	}
}

// load fetches the sheet once and builds rows for the --user column
func (f *sourceFlags) load(ctx context.Context) ([]entity.CanonicalRow, catalog.ColumnBinding, error) {
	src, err := sheets.NewSource(ctx, f.options())
	if err != nil {
		return nil, catalog.ColumnBinding{}, err
	}
	table, err := src.Fetch(ctx)
	if err != nil {
		return nil, catalog.ColumnBinding{}, fmt.Errorf("fetch %s: %w", src.Name(), err)
	}
	return catalog.BuildBound(table, f.user)
}

func newRootCmd() *cobra.Command {
	flags := &sourceFlags{}

	root := &cobra.Command{
		Use:           "aromactl",
		Short:         "Inspect the aroma group-purchase spreadsheet",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.kind, "source", envOr("SHEET_SOURCE", sheets.KindCSV), "sheet source: csv, gsheets, xlsx, sheetmaster")
	pf.StringVar(&flags.url, "url", os.Getenv("SHEET_URL"), "spreadsheet share link or CSV export URL")
	pf.StringVar(&flags.apiKey, "api-key", os.Getenv("GOOGLE_API_KEY"), "Google API key for --source gsheets")
	pf.StringVar(&flags.rng, "range", os.Getenv("SHEET_RANGE"), "A1 range for API sources")
	pf.StringVar(&flags.xlsx, "xlsx", os.Getenv("XLSX_PATH"), "workbook path for --source xlsx")
	pf.StringVar(&flags.sheet, "sheet", os.Getenv("XLSX_SHEET"), "worksheet name for --source xlsx")
	pf.DurationVar(&flags.timeout, "timeout", constants.DefaultFetchTimeout, "fetch timeout")
	pf.StringVarP(&flags.user, "user", "u", "", "member name as written in the column header")

	root.AddCommand(newRowsCmd(flags), newTotalsCmd(flags), newOrderCmd(flags))
	return root
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// parsePlan "3=20" pairs into a ledger
func parsePlan(pairs []string) (*entity.PlannedLedger, error) {
	ledger := entity.NewPlannedLedger()
	for _, p := range pairs {
		row, qty, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("plan entry %q: want <row>=<ml>", p)
		}
		rowID, err := strconv.Atoi(strings.TrimSpace(row))
		if err != nil {
			return nil, fmt.Errorf("plan entry %q: bad row: %w", p, err)
		}
		ml, err := strconv.Atoi(strings.TrimSpace(qty))
		if err != nil {
			return nil, fmt.Errorf("plan entry %q: bad quantity: %w", p, err)
		}
		ledger.Set(rowID, ml)
	}
	return ledger, nil
}
