package config

import (
	"testing"
	"time"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/constants"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("SHEET_URL", "https://docs.google.com/spreadsheets/d/abc/edit")
	t.Setenv("SHEET_SOURCE", "")
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("SESSION_TTL", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Sheet.Kind != "csv" {
		t.Fatalf("expected csv source, got %q", cfg.Sheet.Kind)
	}
	if cfg.PageSize != constants.DefaultPageSize {
		t.Fatalf("page size = %d", cfg.PageSize)
	}
	if cfg.SessionTTL != constants.DefaultSessionTTL {
		t.Fatalf("session ttl = %v", cfg.SessionTTL)
	}
	if cfg.OrderTag != "#заказ" || cfg.ReorderTag != "#дозаказ" {
		t.Fatalf("tags = %q %q", cfg.OrderTag, cfg.ReorderTag)
	}
}

func TestFromEnvMissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("ALLOW_EMPTY_SECRETS", "false")
	t.Setenv("SHEET_URL", "x")

	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error for empty token")
	}
}

func TestFromEnvDurations(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("SHEET_URL", "x")
	t.Setenv("FETCH_TIMEOUT", "5")
	t.Setenv("SESSION_TTL", "90m")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Sheet.Timeout != 5*time.Second {
		t.Fatalf("timeout = %v", cfg.Sheet.Timeout)
	}
	if cfg.SessionTTL != 90*time.Minute {
		t.Fatalf("ttl = %v", cfg.SessionTTL)
	}

	t.Setenv("SESSION_TTL", "soon")
	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error for bad SESSION_TTL")
	}
}

func TestFromEnvXLSXRequiresPath(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("SHEET_SOURCE", "xlsx")
	t.Setenv("XLSX_PATH", "")

	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error for missing XLSX_PATH")
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("X_FLAG", "yes")
	if !getEnvBool("X_FLAG", false) {
		t.Fatalf("yes should be true")
	}
	t.Setenv("X_FLAG", "maybe")
	if getEnvBool("X_FLAG", false) {
		t.Fatalf("unknown value should fall back to default")
	}
}

func TestFromEnvPageSizeIsCapped(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("SHEET_URL", "x")
	t.Setenv("PAGE_SIZE", "500")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.PageSize != constants.MaxPageSize {
		t.Fatalf("page size = %d, want %d", cfg.PageSize, constants.MaxPageSize)
	}
}
