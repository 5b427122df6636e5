package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
	"github.com/yourusername/aroma-purchase-bot/internal/domain/repository"
)

// memoryOrderJournal fallback (server ish davomida)
type memoryOrderJournal struct {
	mu   sync.RWMutex
	data map[string]entity.JournalEntry
}

// NewMemoryOrderJournal xotiradagi jurnal
func NewMemoryOrderJournal() repository.OrderJournal {
	return &memoryOrderJournal{data: make(map[string]entity.JournalEntry)}
}

func prepareEntry(e entity.JournalEntry) entity.JournalEntry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	return e
}

func (m *memoryOrderJournal) Save(_ context.Context, e entity.JournalEntry) error {
	e = prepareEntry(e)
	m.mu.Lock()
	m.data[e.ID] = e
	m.mu.Unlock()
	return nil
}

func (m *memoryOrderJournal) ListByUser(_ context.Context, userID int64, limit int) ([]entity.JournalEntry, error) {
	m.mu.RLock()
	var res []entity.JournalEntry
	for _, v := range m.data {
		if v.UserID == userID {
			res = append(res, v)
		}
	}
	m.mu.RUnlock()
	return newestFirst(res, limit), nil
}

func (m *memoryOrderJournal) ListRecent(_ context.Context, limit int) ([]entity.JournalEntry, error) {
	m.mu.RLock()
	res := make([]entity.JournalEntry, 0, len(m.data))
	for _, v := range m.data {
		res = append(res, v)
	}
	m.mu.RUnlock()
	return newestFirst(res, limit), nil
}

func newestFirst(res []entity.JournalEntry, limit int) []entity.JournalEntry {
	sort.SliceStable(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res
}

// postgresOrderJournal persistent saqlash
type postgresOrderJournal struct {
	db *sql.DB
}

const orderJournalSchema = `
CREATE TABLE IF NOT EXISTS order_journal (
	id TEXT PRIMARY KEY,
	user_id BIGINT NOT NULL,
	user_name TEXT,
	kind TEXT NOT NULL,
	body TEXT NOT NULL,
	planned_total DOUBLE PRECISION NOT NULL DEFAULT 0,
	ordered_total DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS order_journal_user_idx ON order_journal (user_id, created_at DESC);`

func newPostgresOrderJournal(db *sql.DB) (*postgresOrderJournal, error) {
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if _, err := db.Exec(orderJournalSchema); err != nil {
		return nil, fmt.Errorf("create order_journal table: %w", err)
	}
	return &postgresOrderJournal{db: db}, nil
}

func (p *postgresOrderJournal) Save(ctx context.Context, e entity.JournalEntry) error {
	e = prepareEntry(e)
	_, err := p.db.ExecContext(ctx, `
	INSERT INTO order_journal (id, user_id, user_name, kind, body, planned_total, ordered_total, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	ON CONFLICT (id) DO NOTHING
	`, e.ID, e.UserID, e.UserName, string(e.Kind), e.Text, e.Planned, e.Ordered, e.CreatedAt)
	return err
}

func (p *postgresOrderJournal) ListByUser(ctx context.Context, userID int64, limit int) ([]entity.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.QueryContext(ctx, `
	SELECT id, user_id, user_name, kind, body, planned_total, ordered_total, created_at
	FROM order_journal WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	return scanJournal(rows)
}

func (p *postgresOrderJournal) ListRecent(ctx context.Context, limit int) ([]entity.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.QueryContext(ctx, `
	SELECT id, user_id, user_name, kind, body, planned_total, ordered_total, created_at
	FROM order_journal ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return scanJournal(rows)
}

func scanJournal(rows *sql.Rows) ([]entity.JournalEntry, error) {
	defer rows.Close()

	var res []entity.JournalEntry
	for rows.Next() {
		var e entity.JournalEntry
		var userName sql.NullString
		var kind string
		if err := rows.Scan(&e.ID, &e.UserID, &userName, &kind, &e.Text, &e.Planned, &e.Ordered, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.UserName = userName.String
		e.Kind = entity.OrderKind(kind)
		res = append(res, e)
	}
	return res, rows.Err()
}

// NewOrderJournal DSN berilsa Postgres, aks holda memory
func NewOrderJournal(ctx context.Context, params PostgresParams, log *zap.Logger) repository.OrderJournal {
	if log == nil {
		log = zap.NewNop()
	}
	dsn := params.ResolveDSN()
	if dsn == "" {
		log.Info("order journal: memory")
		return NewMemoryOrderJournal()
	}
	db, err := openPostgresWithRetry(ctx, dsn, params.ConnectAttempts, params.ConnectDelay, log)
	if err != nil {
		log.Warn("order journal: Postgres ulanmadi, memory ga qaytdi", zap.Error(err))
		return NewMemoryOrderJournal()
	}
	journal, err := newPostgresOrderJournal(db)
	if err != nil {
		_ = db.Close()
		log.Warn("order journal: schema xatosi, memory ga qaytdi", zap.Error(err))
		return NewMemoryOrderJournal()
	}
	log.Info("order journal: postgres")
	return journal
}
