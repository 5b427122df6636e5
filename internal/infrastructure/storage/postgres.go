package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// pq error codes
const (
	pqInvalidCatalogName = "3D000"
	pqDuplicateDatabase  = "42P04"
)

// PostgresParams POSTGRES_* qiymatlari
type PostgresParams struct {
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	DB       string
	SSLMode  string

	ConnectAttempts int
	ConnectDelay    time.Duration
}

// ResolveDSN explicit DSN yoki alohida maydonlardan URL. Yetarli ma'lumot bo'lmasa "".
func (p PostgresParams) ResolveDSN() string {
	if dsn := strings.TrimSpace(p.DSN); dsn != "" {
		return dsn
	}
	host := strings.TrimSpace(p.Host)
	user := strings.TrimSpace(p.User)
	db := strings.TrimPrefix(strings.TrimSpace(p.DB), "/")
	if host == "" || user == "" || db == "" {
		return ""
	}
	port := strings.TrimSpace(p.Port)
	if port == "" {
		port = "5432"
	}
	sslmode := strings.TrimSpace(p.SSLMode)
	if sslmode == "" {
		sslmode = "disable"
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + db,
	}
	if p.Password == "" {
		u.User = url.User(user)
	} else {
		u.User = url.UserPassword(user, p.Password)
	}
	q := u.Query()
	q.Set("sslmode", sslmode)
	u.RawQuery = q.Encode()
	return u.String()
}

func openPostgresWithRetry(ctx context.Context, dsn string, attempts int, delay time.Duration, log *zap.Logger) (*sql.DB, error) {
	if attempts <= 0 {
		attempts = 20
	}
	if delay <= 0 {
		delay = 2 * time.Second
	}

	var lastErr error
	created := false
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			if err = db.PingContext(ctx); err == nil {
				return db, nil
			}
		}
		if db != nil {
			_ = db.Close()
		}
		lastErr = err
		if !created && hasPQCode(err, pqInvalidCatalogName) {
			if createErr := ensurePostgresDatabase(ctx, dsn); createErr == nil {
				created = true
				continue
			} else {
				lastErr = createErr
			}
		}
		log.Debug("postgres not ready", zap.Int("attempt", attempt), zap.Error(err))
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("postgres connection failed")
	}
	return nil, lastErr
}

// ensurePostgresDatabase connects to the "postgres" maintenance db and creates the target db.
func ensurePostgresDatabase(ctx context.Context, dsn string) error {
	u, err := url.Parse(dsn)
	if err != nil || u.Host == "" {
		return fmt.Errorf("database info not found in dsn")
	}
	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return fmt.Errorf("database name missing in dsn")
	}
	u.Path = "/postgres"

	db, err := sql.Open("postgres", u.String())
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(dbName)); err != nil {
		if hasPQCode(err, pqDuplicateDatabase) {
			return nil
		}
		return err
	}
	return nil
}

func hasPQCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == code
	}
	return false
}
