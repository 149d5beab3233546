// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/stratatour/internal/app/store/audit"
	"github.com/dalemusser/stratatour/internal/app/system/auth"
	"github.com/dalemusser/stratatour/internal/app/system/network"
	"go.uber.org/zap"
)

// Destinations for audit events.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off" // disabled
)

// ValidMode reports whether m is a recognised destination.
func ValidMode(m string) bool {
	switch m {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Logger records edit events to MongoDB and structured logs.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	mode   string
}

// New creates a new audit Logger. An unknown mode behaves like ModeAll.
func New(store *audit.Store, zapLog *zap.Logger, mode string) *Logger {
	if !ValidMode(mode) {
		mode = ModeAll
	}
	return &Logger{store: store, zapLog: zapLog, mode: mode}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.EditorName != "" {
		fields = append(fields, zap.String("editor", event.EditorName))
	}
	if event.Target != "" {
		fields = append(fields, zap.String("target", event.Target))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event. A nil Logger is a no-op so tests can pass nil.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil || l.mode == ModeOff {
		return
	}
	if l.mode == ModeAll || l.mode == ModeLog {
		l.logToZap(event)
	}
	if l.mode == ModeAll || l.mode == ModeDB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func fromRequest(r *http.Request, category, eventType string) audit.Event {
	return audit.Event{
		Category:   category,
		EventType:  eventType,
		EditorName: auth.EditorName(r.Context()),
		IP:         network.ClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
	}
}

// SettingsReplaced logs a full settings save.
func (l *Logger) SettingsReplaced(ctx context.Context, r *http.Request, keyCount int) {
	e := fromRequest(r, audit.CategorySettings, audit.EventSettingsReplaced)
	e.Details = map[string]string{"keys": strconv.Itoa(keyCount)}
	l.Log(ctx, e)
}

// PageCreated logs a new page.
func (l *Logger) PageCreated(ctx context.Context, r *http.Request, slug string) {
	e := fromRequest(r, audit.CategoryPages, audit.EventPageCreated)
	e.Target = slug
	l.Log(ctx, e)
}

// PageUpdated logs a page save.
func (l *Logger) PageUpdated(ctx context.Context, r *http.Request, slug string, blocks int) {
	e := fromRequest(r, audit.CategoryPages, audit.EventPageUpdated)
	e.Target = slug
	e.Details = map[string]string{"blocks": strconv.Itoa(blocks)}
	l.Log(ctx, e)
}

// PageDeleted logs a page removal.
func (l *Logger) PageDeleted(ctx context.Context, r *http.Request, slug string) {
	e := fromRequest(r, audit.CategoryPages, audit.EventPageDeleted)
	e.Target = slug
	l.Log(ctx, e)
}
