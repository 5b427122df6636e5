package repository

import (
	"context"
	"time"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
)

// SheetSource fetches the shared spreadsheet as a raw table.
// Implementations must fail fast and must not retry.
type SheetSource interface {
	Fetch(ctx context.Context) (entity.RawTable, error)
	Name() string
}

// SessionRepository per-user interactive sessions
type SessionRepository interface {
	// Get returns a snapshot copy of the session.
	Get(ctx context.Context, userID int64) (*entity.Session, bool, error)

	// Update runs fn under the session lock, creating the session when missing.
	Update(ctx context.Context, userID int64, fn func(s *entity.Session) error) (*entity.Session, error)

	// PurgeIdle drops sessions idle for longer than ttl and returns how many were removed.
	PurgeIdle(ctx context.Context, ttl time.Duration) (int, error)
}

// OrderJournal keeps composed order messages
type OrderJournal interface {
	Save(ctx context.Context, entry entity.JournalEntry) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]entity.JournalEntry, error)
	ListRecent(ctx context.Context, limit int) ([]entity.JournalEntry, error)
}
