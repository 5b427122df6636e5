package telegram

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// cleanupSessions - eski sessiyalarni tozalash (reja ham o'chadi)
func (h *BotHandler) cleanupSessions(ctx context.Context) {
	ticker := time.NewTicker(h.cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := h.purchase.PurgeIdle(ctx, h.sessionTTL); err != nil {
				h.log.Warn("session cleanup failed", zap.Error(err))
			}
		}
	}
}
