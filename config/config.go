package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/constants"
	"github.com/yourusername/aroma-purchase-bot/internal/infrastructure/sheets"
	"github.com/yourusername/aroma-purchase-bot/internal/infrastructure/storage"
)

// Config ilovaning konfiguratsiyasi
type Config struct {
	TelegramToken     string
	AllowEmptySecrets bool
	LogLevel          string

	Sheet sheets.Options

	AnchorKeyword string
	OrderTag      string
	ReorderTag    string
	PageSize      int
	SessionTTL    time.Duration

	HTTPAddr string
	Postgres storage.PostgresParams
}

// Load .env (mavjud bo'lsa) va environment'dan konfiguratsiyani yuklash
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv faqat os environment'dan o'qiydi
func FromEnv() (*Config, error) {
	timeout, err := getEnvDuration("FETCH_TIMEOUT", constants.DefaultFetchTimeout)
	if err != nil {
		return nil, err
	}
	ttl, err := getEnvDuration("SESSION_TTL", constants.DefaultSessionTTL)
	if err != nil {
		return nil, err
	}
	connectDelay, err := getEnvDuration("POSTGRES_CONNECT_RETRY", 2*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		TelegramToken:     strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		AllowEmptySecrets: getEnvBool("ALLOW_EMPTY_SECRETS", false),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Sheet: sheets.Options{
			Kind:      getEnv("SHEET_SOURCE", sheets.KindCSV),
			SheetURL:  strings.TrimSpace(os.Getenv("SHEET_URL")),
			GoogleKey: strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")),
			Range:     strings.TrimSpace(os.Getenv("SHEET_RANGE")),
			XLSXPath:  strings.TrimSpace(os.Getenv("XLSX_PATH")),
			XLSXSheet: strings.TrimSpace(os.Getenv("XLSX_SHEET")),
			SheetMaster: sheets.SheetMasterConfig{
				BaseURL: strings.TrimSpace(os.Getenv("SHEETMASTER_API_BASE_URL")),
				APIKey:  strings.TrimSpace(os.Getenv("SHEETMASTER_API_KEY")),
				FileID:  strings.TrimSpace(os.Getenv("SHEETMASTER_CATALOG_FILE_ID")),
				Range:   getEnv("SHEETMASTER_RANGE", strings.TrimSpace(os.Getenv("SHEET_RANGE"))),
			},
			Timeout: timeout,
		},
		AnchorKeyword: getEnv("ANCHOR_KEYWORD", constants.DefaultAnchorKeyword),
		OrderTag:      getEnv("ORDER_TAG", constants.DefaultOrderTag),
		ReorderTag:    getEnv("REORDER_TAG", constants.DefaultReorderTag),
		PageSize:      getEnvInt("PAGE_SIZE", constants.DefaultPageSize),
		SessionTTL:    ttl,
		HTTPAddr:      strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		Postgres: storage.PostgresParams{
			DSN:             strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
			Host:            os.Getenv("POSTGRES_HOST"),
			Port:            os.Getenv("POSTGRES_PORT"),
			User:            os.Getenv("POSTGRES_USER"),
			Password:        os.Getenv("POSTGRES_PASSWORD"),
			DB:              os.Getenv("POSTGRES_DB"),
			SSLMode:         os.Getenv("POSTGRES_SSLMODE"),
			ConnectAttempts: getEnvInt("POSTGRES_CONNECT_MAX_ATTEMPTS", 20),
			ConnectDelay:    connectDelay,
		},
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = constants.DefaultPageSize
	}
	if cfg.PageSize > constants.MaxPageSize {
		cfg.PageSize = constants.MaxPageSize
	}

	// Validatsiya
	if !cfg.AllowEmptySecrets && cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable bo'sh")
	}
	if err := cfg.validateSheet(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validateSheet() error {
	switch strings.ToLower(c.Sheet.Kind) {
	case sheets.KindCSV:
		if c.Sheet.SheetURL == "" {
			return fmt.Errorf("SHEET_URL bo'sh (SHEET_SOURCE=csv)")
		}
	case sheets.KindGoogleAPI:
		if c.Sheet.SheetURL == "" || c.Sheet.GoogleKey == "" {
			return fmt.Errorf("SHEET_URL va GOOGLE_API_KEY kerak (SHEET_SOURCE=gsheets)")
		}
	case sheets.KindXLSX:
		if c.Sheet.XLSXPath == "" {
			return fmt.Errorf("XLSX_PATH bo'sh (SHEET_SOURCE=xlsx)")
		}
	case sheets.KindSheetMaster:
		// SheetMaster sozlamalari manba yaratilganda tekshiriladi
	default:
		return fmt.Errorf("noma'lum SHEET_SOURCE: %q", c.Sheet.Kind)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvDuration "90s" kabi qiymatlar yoki butun son (soniya)
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s noto'g'ri formatda: %v", key, err)
	}
	return d, nil
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return defaultValue
	}
}
