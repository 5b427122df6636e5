package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/aroma-purchase-bot/internal/catalog"
	"github.com/yourusername/aroma-purchase-bot/internal/domain/constants"
	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
	"github.com/yourusername/aroma-purchase-bot/internal/domain/repository"
	"github.com/yourusername/aroma-purchase-bot/internal/infrastructure/export"
	"github.com/yourusername/aroma-purchase-bot/internal/infrastructure/metrics"
)

// PurchaseUseCase group-purchase business logic. Every read goes through a
// fresh sheet fetch; the user's plan lives in the session.
type PurchaseUseCase interface {
	Start(ctx context.Context, userID int64) (*entity.Session, error)
	SetUserName(ctx context.Context, userID int64, name string) (*entity.Session, error)
	Session(ctx context.Context, userID int64) (*entity.Session, bool, error)

	View(ctx context.Context, userID int64) (*CatalogView, error)
	Catalog(ctx context.Context, userName string) (*CatalogSnapshot, error)

	Increment(ctx context.Context, userID int64, rowID int) (int, error)
	SetPlanned(ctx context.Context, userID int64, rowID, qty int) (int, error)

	SetQuery(ctx context.Context, userID int64, query string) error
	ToggleCategory(ctx context.Context, userID int64, tag entity.CategoryTag) error
	ToggleAnchor(ctx context.Context, userID int64) error
	ToggleMine(ctx context.Context, userID int64) error
	OpenRow(ctx context.Context, userID int64, rowID int) error
	CloseRow(ctx context.Context, userID int64) error
	SetPage(ctx context.Context, userID int64, page int) error
	RememberListMessage(ctx context.Context, userID, chatID int64, msgID int) error

	ComposeOrder(ctx context.Context, userID int64) (entity.OrderMessage, error)
	History(ctx context.Context, userID int64, limit int) ([]entity.JournalEntry, error)
	ExportPlan(ctx context.Context, userID int64) ([]byte, string, error)

	PurgeIdle(ctx context.Context, ttl time.Duration) (int, error)
}

// Options presentation and message knobs
type Options struct {
	AnchorKeyword string
	OrderTag      string
	ReorderTag    string
	PageSize      int
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.AnchorKeyword) == "" {
		o.AnchorKeyword = constants.DefaultAnchorKeyword
	}
	if strings.TrimSpace(o.OrderTag) == "" {
		o.OrderTag = constants.DefaultOrderTag
	}
	if strings.TrimSpace(o.ReorderTag) == "" {
		o.ReorderTag = constants.DefaultReorderTag
	}
	if o.PageSize <= 0 {
		o.PageSize = constants.DefaultPageSize
	}
	if o.PageSize > constants.MaxPageSize {
		o.PageSize = constants.MaxPageSize
	}
	return o
}

// CatalogSnapshot one freshly built catalog for a user name
type CatalogSnapshot struct {
	Rows          []entity.CanonicalRow
	UserColumn    bool
	FixedPrice    bool
	FetchedAt     time.Time
	SourceName    string
	FetchDuration time.Duration
}

// CatalogView everything a list screen needs
type CatalogView struct {
	UserName   string
	UserColumn bool
	Filter     entity.ViewFilter
	Ledger     *entity.PlannedLedger

	CatalogSize int
	Rows        []entity.CanonicalRow // filtered
	PageRows    []entity.CanonicalRow
	Page        int
	PageCount   int
	Totals      entity.Totals // over Rows

	OpenRow *entity.CanonicalRow
}

type purchaseUseCase struct {
	source   repository.SheetSource
	sessions repository.SessionRepository
	journal  repository.OrderJournal
	rec      metrics.Recorder
	log      *zap.Logger
	opts     Options
	now      func() time.Time
}

// NewPurchaseUseCase yangi PurchaseUseCase yaratish
func NewPurchaseUseCase(
	source repository.SheetSource,
	sessions repository.SessionRepository,
	journal repository.OrderJournal,
	rec metrics.Recorder,
	log *zap.Logger,
	opts Options,
) PurchaseUseCase {
	if rec == nil {
		rec = metrics.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &purchaseUseCase{
		source:   source,
		sessions: sessions,
		journal:  journal,
		rec:      rec,
		log:      log,
		opts:     opts.withDefaults(),
		now:      time.Now,
	}
}

// Start ism so'rashni qayta boshlaydi; reja saqlanib qoladi
func (u *purchaseUseCase) Start(ctx context.Context, userID int64) (*entity.Session, error) {
	return u.sessions.Update(ctx, userID, func(s *entity.Session) error {
		s.AwaitName = true
		s.OpenRowID = entity.NoOpenRow
		return nil
	})
}

// SetUserName ism o'zgarganda reja o'chirilmaydi
func (u *purchaseUseCase) SetUserName(ctx context.Context, userID int64, name string) (*entity.Session, error) {
	if strings.TrimSpace(name) == "" {
		return nil, entity.ErrNoUserName
	}
	s, err := u.sessions.Update(ctx, userID, func(s *entity.Session) error {
		s.UserName = name
		s.AwaitName = false
		s.Page = 0
		s.OpenRowID = entity.NoOpenRow
		if s.Ledger == nil {
			s.Ledger = entity.NewPlannedLedger()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Debug("user name set", zap.Int64("user_id", userID), zap.String("name", name))
	return s, nil
}

func (u *purchaseUseCase) Session(ctx context.Context, userID int64) (*entity.Session, bool, error) {
	return u.sessions.Get(ctx, userID)
}

func (u *purchaseUseCase) namedSession(ctx context.Context, userID int64) (*entity.Session, error) {
	s, ok, err := u.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok || !s.HasUser() {
		return nil, entity.ErrNoUserName
	}
	return s, nil
}

// Catalog fetches the sheet and builds rows for userName.
func (u *purchaseUseCase) Catalog(ctx context.Context, userName string) (*CatalogSnapshot, error) {
	start := u.now()
	table, err := u.source.Fetch(ctx)
	elapsed := u.now().Sub(start)
	if err != nil {
		u.rec.SheetFetched(u.source.Name(), elapsed, 0, err)
		u.log.Warn("sheet fetch failed", zap.String("source", u.source.Name()), zap.Duration("elapsed", elapsed), zap.Error(err))
		return nil, fmt.Errorf("sheet fetch: %w", err)
	}
	u.rec.SheetFetched(u.source.Name(), elapsed, len(table.Rows), nil)

	rows, binding, err := catalog.BuildBound(table, userName)
	if err != nil {
		if se, ok := entity.IsSchemaError(err); ok {
			u.rec.SchemaRejected(se.Column)
			u.log.Warn("sheet schema rejected", zap.String("missing", se.Column), zap.Strings("headers", se.Headers))
		}
		return nil, err
	}

	return &CatalogSnapshot{
		Rows:          rows,
		UserColumn:    !binding.OrderedSynthesized,
		FixedPrice:    binding.PriceMode == catalog.PriceFixed,
		FetchedAt:     start,
		SourceName:    u.source.Name(),
		FetchDuration: elapsed,
	}, nil
}

// View one recompute pass: fetch, build, filter, sum, paginate.
func (u *purchaseUseCase) View(ctx context.Context, userID int64) (*CatalogView, error) {
	s, err := u.namedSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	snap, err := u.Catalog(ctx, s.UserName)
	if err != nil {
		return nil, err
	}

	filtered := catalog.ApplyView(snap.Rows, s.Filter, u.opts.AnchorKeyword, s.Ledger)
	v := &CatalogView{
		UserName:    s.UserName,
		UserColumn:  snap.UserColumn,
		Filter:      s.Filter,
		Ledger:      s.Ledger,
		CatalogSize: len(snap.Rows),
		Rows:        filtered,
		Totals:      catalog.ComputeSums(filtered, s.Ledger),
	}
	v.PageCount, v.Page, v.PageRows = paginate(filtered, s.Page, u.opts.PageSize)

	if s.OpenRowID != entity.NoOpenRow {
		if r, ok := catalog.FindRow(snap.Rows, s.OpenRowID); ok {
			v.OpenRow = &r
		}
	}
	return v, nil
}

func paginate(rows []entity.CanonicalRow, page, size int) (pageCount, current int, out []entity.CanonicalRow) {
	pageCount = (len(rows) + size - 1) / size
	if pageCount == 0 {
		pageCount = 1
	}
	current = page
	if current < 0 {
		current = 0
	}
	if current >= pageCount {
		current = pageCount - 1
	}
	start := current * size
	if start > len(rows) {
		start = len(rows)
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return pageCount, current, rows[start:end]
}

// requireRow row ids are positional, so a plan is only stored for a row
// present in the current sheet.
func (u *purchaseUseCase) requireRow(ctx context.Context, userID int64, rowID int) error {
	if rowID < 0 {
		return entity.ErrRowNotFound
	}
	s, err := u.namedSession(ctx, userID)
	if err != nil {
		return err
	}
	snap, err := u.Catalog(ctx, s.UserName)
	if err != nil {
		return err
	}
	if _, ok := catalog.FindRow(snap.Rows, rowID); !ok {
		u.log.Debug("row not in catalog", zap.Int64("user_id", userID), zap.Int("row_id", rowID), zap.Int("rows", len(snap.Rows)))
		return entity.ErrRowNotFound
	}
	return nil
}

// Increment +10 ml for rowID, returns the new planned value.
func (u *purchaseUseCase) Increment(ctx context.Context, userID int64, rowID int) (int, error) {
	if err := u.requireRow(ctx, userID, rowID); err != nil {
		return 0, err
	}
	var planned int
	_, err := u.sessions.Update(ctx, userID, func(s *entity.Session) error {
		if !s.HasUser() {
			return entity.ErrNoUserName
		}
		planned = s.Ledger.Increment(rowID)
		return nil
	})
	if err != nil {
		return 0, err
	}
	u.rec.PlanChanged("increment")
	return planned, nil
}

// SetPlanned replaces the planned value; negatives become 0.
func (u *purchaseUseCase) SetPlanned(ctx context.Context, userID int64, rowID, qty int) (int, error) {
	if err := u.requireRow(ctx, userID, rowID); err != nil {
		return 0, err
	}
	var planned int
	_, err := u.sessions.Update(ctx, userID, func(s *entity.Session) error {
		if !s.HasUser() {
			return entity.ErrNoUserName
		}
		s.Ledger.Set(rowID, qty)
		planned = s.Ledger.Get(rowID)
		return nil
	})
	if err != nil {
		return 0, err
	}
	u.rec.PlanChanged("set")
	return planned, nil
}

func (u *purchaseUseCase) SetQuery(ctx context.Context, userID int64, query string) error {
	_, err := u.sessions.Update(ctx, userID, func(s *entity.Session) error {
		s.Filter.Query = strings.ToLower(strings.TrimSpace(query))
		s.Page = 0
		return nil
	})
	return err
}

// ToggleCategory flips one category in the selection. CategoryAll clears it.
func (u *purchaseUseCase) ToggleCategory(ctx context.Context, userID int64, tag entity.CategoryTag) error {
	_, err := u.sessions.Update(ctx, userID, func(s *entity.Session) error {
		s.Page = 0
		if tag == entity.CategoryAll || tag == entity.CategoryUnknown {
			s.Filter.Categories = nil
			return nil
		}
		if s.Filter.Categories == nil {
			s.Filter.Categories = make(map[entity.CategoryTag]struct{})
		}
		if _, on := s.Filter.Categories[tag]; on {
			delete(s.Filter.Categories, tag)
		} else {
			s.Filter.Categories[tag] = struct{}{}
		}
		if len(s.Filter.Categories) == 0 {
			s.Filter.Categories = nil
		}
		return nil
	})
	return err
}

func (u *purchaseUseCase) ToggleAnchor(ctx context.Context, userID int64) error {
	_, err := u.sessions.Update(ctx, userID, func(s *entity.Session) error {
		s.Filter.AnchorOnly = !s.Filter.AnchorOnly
		s.Page = 0
		return nil
	})
	return err
}

func (u *purchaseUseCase) ToggleMine(ctx context.Context, userID int64) error {
	_, err := u.sessions.Update(ctx, userID, func(s *entity.Session) error {
		s.Filter.MineOnly = !s.Filter.MineOnly
		s.Page = 0
		return nil
	})
	return err
}

func (u *purchaseUseCase) OpenRow(ctx context.Context, userID int64, rowID int) error {
	if err := u.requireRow(ctx, userID, rowID); err != nil {
		return err
	}
	_, err := u.sessions.Update(ctx, userID, func(s *entity.Session) error {
		s.OpenRowID = rowID
		return nil
	})
	return err
}

func (u *purchaseUseCase) CloseRow(ctx context.Context, userID int64) error {
	_, err := u.sessions.Update(ctx, userID, func(s *entity.Session) error {
		s.OpenRowID = entity.NoOpenRow
		return nil
	})
	return err
}

func (u *purchaseUseCase) SetPage(ctx context.Context, userID int64, page int) error {
	if page < 0 {
		page = 0
	}
	_, err := u.sessions.Update(ctx, userID, func(s *entity.Session) error {
		s.Page = page
		return nil
	})
	return err
}

// RememberListMessage the list message edited in place on later updates
func (u *purchaseUseCase) RememberListMessage(ctx context.Context, userID, chatID int64, msgID int) error {
	_, err := u.sessions.Update(ctx, userID, func(s *entity.Session) error {
		s.ListChatID = chatID
		s.ListMsgID = msgID
		return nil
	})
	return err
}

// ComposeOrder builds the shareable message over the full catalog and journals it.
func (u *purchaseUseCase) ComposeOrder(ctx context.Context, userID int64) (entity.OrderMessage, error) {
	s, err := u.namedSession(ctx, userID)
	if err != nil {
		return entity.OrderMessage{}, err
	}
	snap, err := u.Catalog(ctx, s.UserName)
	if err != nil {
		return entity.OrderMessage{}, err
	}

	msg, err := catalog.Compose(snap.Rows, s.Ledger, strings.TrimSpace(s.UserName), u.opts.OrderTag, u.opts.ReorderTag)
	if err != nil {
		return entity.OrderMessage{}, err
	}
	u.rec.OrderComposed(string(msg.Kind))

	if u.journal != nil {
		totals := catalog.ComputeSums(snap.Rows, s.Ledger)
		entry := entity.JournalEntry{
			UserID:    userID,
			UserName:  s.UserName,
			Kind:      msg.Kind,
			Text:      msg.Text(),
			Planned:   totals.Planned,
			Ordered:   totals.Ordered,
			CreatedAt: u.now(),
		}
		if err := u.journal.Save(ctx, entry); err != nil {
			u.log.Warn("order journal save failed", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
	return msg, nil
}

func (u *purchaseUseCase) History(ctx context.Context, userID int64, limit int) ([]entity.JournalEntry, error) {
	if u.journal == nil {
		return nil, nil
	}
	return u.journal.ListByUser(ctx, userID, limit)
}

// ExportPlan XLSX of the user's plan with totals over the full catalog.
func (u *purchaseUseCase) ExportPlan(ctx context.Context, userID int64) ([]byte, string, error) {
	s, err := u.namedSession(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if len(s.Ledger.Positive()) == 0 {
		return nil, "", entity.ErrEmptyPlan
	}
	snap, err := u.Catalog(ctx, s.UserName)
	if err != nil {
		return nil, "", err
	}
	if !plannedInCatalog(snap.Rows, s.Ledger) {
		return nil, "", entity.ErrEmptyPlan
	}

	now := u.now()
	data, err := export.BuildPlanXLSX(export.PlanReport{
		UserName:    strings.TrimSpace(s.UserName),
		Rows:        snap.Rows,
		Ledger:      s.Ledger,
		Totals:      catalog.ComputeSums(snap.Rows, s.Ledger),
		GeneratedAt: now,
	})
	if err != nil {
		return nil, "", fmt.Errorf("build xlsx: %w", err)
	}
	return data, fmt.Sprintf("plan_%s.xlsx", now.Format("20060102_1504")), nil
}

// plannedInCatalog at least one positive plan points at an existing row
func plannedInCatalog(rows []entity.CanonicalRow, ledger *entity.PlannedLedger) bool {
	for _, id := range ledger.Positive() {
		if _, ok := catalog.FindRow(rows, id); ok {
			return true
		}
	}
	return false
}

// PurgeIdle drops idle sessions and their plans.
func (u *purchaseUseCase) PurgeIdle(ctx context.Context, ttl time.Duration) (int, error) {
	n, err := u.sessions.PurgeIdle(ctx, ttl)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		u.rec.SessionsPurged(n)
		u.log.Info("idle sessions purged", zap.Int("count", n), zap.Duration("ttl", ttl))
	}
	return n, nil
}

// IsUserError errors that are shown to the user as plain hints
func IsUserError(err error) bool {
	if _, ok := entity.IsSchemaError(err); ok {
		return true
	}
	return errors.Is(err, entity.ErrEmptyPlan) || errors.Is(err, entity.ErrNoUserName) || errors.Is(err, entity.ErrRowNotFound)
}
