package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/aroma-purchase-bot/config"
	"github.com/yourusername/aroma-purchase-bot/internal/delivery/httpapi"
	"github.com/yourusername/aroma-purchase-bot/internal/delivery/telegram"
	"github.com/yourusername/aroma-purchase-bot/internal/infrastructure/metrics"
	"github.com/yourusername/aroma-purchase-bot/internal/infrastructure/sheets"
	"github.com/yourusername/aroma-purchase-bot/internal/infrastructure/storage"
	"github.com/yourusername/aroma-purchase-bot/internal/usecase"
	"github.com/yourusername/aroma-purchase-bot/pkg/logger"
)

func main() {
	initDefaultTimezone()

	// Logger ni ishga tushirish
	logger.Init()
	defer logger.Sync()
	log := logger.L()
	log.Info("🚀 starting aroma purchase bot")

	// Konfiguratsiyani yuklash
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}
	if l, err := logger.New(cfg.LogLevel); err == nil {
		logger.Set(l)
		log = l
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AllowEmptySecrets && isEmptyOrDisabled(cfg.TelegramToken) {
		log.Warn("TELEGRAM_BOT_TOKEN is empty, bot stays idle until stopped")
		<-ctx.Done()
		return
	}

	// 1. Sheet source
	source, err := sheets.NewSource(ctx, cfg.Sheet)
	if err != nil {
		log.Fatal("sheet source init failed", zap.Error(err))
	}
	log.Info("✅ sheet source ready", zap.String("kind", source.Name()))

	// 2. Repositories
	sessions := storage.NewMemorySessionRepository()
	journal := storage.NewOrderJournal(ctx, cfg.Postgres, log)

	// 3. Metrics
	m := metrics.New()

	// 4. Use case
	purchase := usecase.NewPurchaseUseCase(source, sessions, journal, m, log, usecase.Options{
		AnchorKeyword: cfg.AnchorKeyword,
		OrderTag:      cfg.OrderTag,
		ReorderTag:    cfg.ReorderTag,
		PageSize:      cfg.PageSize,
	})

	// 5. HTTP (health, metrics, read-only catalog)
	var srv *http.Server
	if strings.TrimSpace(cfg.HTTPAddr) != "" {
		srv = httpapi.New(httpapi.Config{
			Address:       cfg.HTTPAddr,
			AnchorKeyword: cfg.AnchorKeyword,
			Purchase:      purchase,
			Journal:       journal,
			Metrics:       m.Handler(),
			Logger:        log,
		})
		go func() {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("http server failed", zap.Error(err))
			}
		}()
	}

	// 6. Telegram bot handler
	botHandler, err := telegram.NewBotHandler(cfg.TelegramToken, purchase, log, telegram.Options{
		SessionTTL: cfg.SessionTTL,
	})
	if err != nil {
		log.Fatal("bot handler init failed", zap.Error(err))
	}
	log.Info("✅ telegram bot ready", zap.String("username", botHandler.GetBotUsername()))

	if err := botHandler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("bot stopped with error", zap.Error(err))
	}
	log.Info("⏳ shutdown signal received")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown failed", zap.Error(err))
		}
	}
	log.Info("✅ bot stopped")
}

func initDefaultTimezone() {
	const tzName = "Europe/Moscow"
	if loc, err := time.LoadLocation(tzName); err == nil {
		time.Local = loc
		return
	}
	time.Local = time.FixedZone(tzName, 3*60*60)
}

func isEmptyOrDisabled(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return true
	}
	return strings.EqualFold(value, "disabled")
}
