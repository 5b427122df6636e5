// Package httpapi exposes health, metrics and a read-only catalog view over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yourusername/aroma-purchase-bot/internal/catalog"
	"github.com/yourusername/aroma-purchase-bot/internal/domain/constants"
	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
	"github.com/yourusername/aroma-purchase-bot/internal/domain/repository"
	"github.com/yourusername/aroma-purchase-bot/internal/usecase"
)

const defaultRecentLimit = 20

// Config holds runtime options for the HTTP server.
type Config struct {
	Address       string
	AnchorKeyword string
	Purchase      usecase.PurchaseUseCase
	Journal       repository.OrderJournal
	Metrics       http.Handler
	Logger        *zap.Logger
}

type server struct {
	purchase usecase.PurchaseUseCase
	journal  repository.OrderJournal
	anchor   string
	log      *zap.Logger
}

// New constructs the HTTP server with its middleware stack.
func New(cfg Config) *http.Server {
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      NewRouter(cfg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewRouter routes without the listener, used by tests.
func NewRouter(cfg Config) http.Handler {
	s := &server{
		purchase: cfg.Purchase,
		journal:  cfg.Journal,
		anchor:   cfg.AnchorKeyword,
		log:      cfg.Logger,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if strings.TrimSpace(s.anchor) == "" {
		s.anchor = constants.DefaultAnchorKeyword
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(requestLogger(s.log))
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(60 * time.Second))

	router.Get("/healthz", s.health)
	if cfg.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", s.catalog)
		r.Get("/orders/recent", s.recentOrders)
	})
	return router
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type catalogResponse struct {
	User       string                `json:"user,omitempty"`
	UserColumn bool                  `json:"user_column"`
	FixedPrice bool                  `json:"fixed_price"`
	Source     string                `json:"source"`
	FetchedAt  time.Time             `json:"fetched_at"`
	FetchMS    int64                 `json:"fetch_ms"`
	Total      int                   `json:"total_rows"`
	Rows       []entity.CanonicalRow `json:"rows"`
	Totals     entity.Totals         `json:"totals"`
}

// catalog GET /api/v1/catalog?user=&q=&category=&anchor=1
func (s *server) catalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	user := strings.TrimSpace(q.Get("user"))

	snap, err := s.purchase.Catalog(r.Context(), user)
	if err != nil {
		s.writeError(w, err)
		return
	}

	filter := entity.ViewFilter{
		Query:      strings.ToLower(strings.TrimSpace(q.Get("q"))),
		AnchorOnly: q.Get("anchor") == "1" || q.Get("anchor") == "true",
	}
	for _, raw := range q["category"] {
		tag := entity.CategoryTag(strings.ToLower(strings.TrimSpace(raw)))
		if tag == entity.CategoryAll || tag == entity.CategoryUnknown {
			continue
		}
		if filter.Categories == nil {
			filter.Categories = make(map[entity.CategoryTag]struct{})
		}
		filter.Categories[tag] = struct{}{}
	}

	rows := catalog.ApplyView(snap.Rows, filter, s.anchor, nil)
	if rows == nil {
		rows = []entity.CanonicalRow{}
	}
	writeJSON(w, http.StatusOK, catalogResponse{
		User:       user,
		UserColumn: snap.UserColumn,
		FixedPrice: snap.FixedPrice,
		Source:     snap.SourceName,
		FetchedAt:  snap.FetchedAt,
		FetchMS:    snap.FetchDuration.Milliseconds(),
		Total:      len(snap.Rows),
		Rows:       rows,
		Totals:     catalog.ComputeSums(rows, nil),
	})
}

type journalItem struct {
	ID        string           `json:"id"`
	UserName  string           `json:"user_name"`
	Kind      entity.OrderKind `json:"kind"`
	Text      string           `json:"text"`
	Planned   float64          `json:"planned_total"`
	Ordered   float64          `json:"ordered_total"`
	CreatedAt time.Time        `json:"created_at"`
}

// recentOrders GET /api/v1/orders/recent?limit=
func (s *server) recentOrders(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeJSON(w, http.StatusOK, []journalItem{})
		return
	}
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a positive integer"})
			return
		}
		limit = v
	}
	entries, err := s.journal.ListRecent(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	items := make([]journalItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, journalItem{
			ID:        e.ID,
			UserName:  e.UserName,
			Kind:      e.Kind,
			Text:      e.Text,
			Planned:   e.Planned,
			Ordered:   e.Ordered,
			CreatedAt: e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

type errorBody struct {
	Error  string `json:"error"`
	Column string `json:"column,omitempty"`
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	if se, ok := entity.IsSchemaError(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "schema", Column: se.Column})
		return
	}
	if errors.Is(err, entity.ErrNoUserName) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	s.log.Warn("http request failed", zap.Error(err))
	writeJSON(w, http.StatusBadGateway, errorBody{Error: "sheet unavailable"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger one structured line per request
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.Info("request",
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
			)
		})
	}
}
