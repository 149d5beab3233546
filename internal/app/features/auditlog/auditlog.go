// internal/app/features/auditlog/auditlog.go
package auditlog

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/stratatour/internal/app/store/audit"
	"github.com/dalemusser/stratatour/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
	// maxPage keeps the skip offset well inside int64.
	maxPage = 1_000_000
)

// Handler serves the edit history recorded by the audit logger.
type Handler struct {
	store  *audit.Store
	logger *zap.Logger
}

// NewHandler creates a new audit log Handler.
func NewHandler(store *audit.Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Response is one page of audit events.
type Response struct {
	Events   []audit.Event `json:"events"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// Routes returns a router with the audit listing. Authentication is
// applied by the enclosing /api group.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.List)
	return r
}

// List returns audit events, newest first. Query parameters: category,
// event_type, target, editor, start_date and end_date (YYYY-MM-DD, UTC,
// inclusive), page and page_size.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := positiveInt(q.Get("page"), 1)
	size := positiveInt(q.Get("page_size"), defaultPageSize)
	if size > maxPageSize {
		size = maxPageSize
	}
	if page > maxPage {
		jsonutil.BadRequest(w, "page must be at most "+strconv.Itoa(maxPage))
		return
	}

	filter := audit.QueryFilter{
		Category:   strings.TrimSpace(q.Get("category")),
		EventType:  strings.TrimSpace(q.Get("event_type")),
		Target:     strings.TrimSpace(q.Get("target")),
		EditorName: strings.TrimSpace(q.Get("editor")),
		Limit:      int64(size),
		Offset:     int64(page-1) * int64(size),
	}
	if s := strings.TrimSpace(q.Get("start_date")); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			jsonutil.BadRequest(w, "start_date must be YYYY-MM-DD")
			return
		}
		filter.StartTime = &t
	}
	if s := strings.TrimSpace(q.Get("end_date")); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			jsonutil.BadRequest(w, "end_date must be YYYY-MM-DD")
			return
		}
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &endOfDay
	}

	events, err := h.store.Query(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to query audit events", zap.Error(err))
		jsonutil.InternalError(w, "Failed to load audit events")
		return
	}
	total, err := h.store.CountByFilter(r.Context(), filter)
	if err != nil {
		h.logger.Warn("failed to count audit events", zap.Error(err))
		total = int64(len(events))
	}
	if events == nil {
		events = []audit.Event{}
	}

	jsonutil.OK(w, Response{Events: events, Total: total, Page: page, PageSize: size})
}

func positiveInt(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return def
}
