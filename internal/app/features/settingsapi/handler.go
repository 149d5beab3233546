// Package settingsapi serves the site settings document.
//
// Endpoints (mounted at /api/settings):
//   - GET  /  returns the flat key/value settings map
//   - PUT  /  replaces the whole map (POST is accepted as an alias)
//
// Values are always strings; list-valued settings such as navbar_links
// are JSON encoded inside their string. Unknown keys are stored and
// returned as-is.
package settingsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/dalemusser/stratatour/internal/app/system/auditlog"
	"github.com/dalemusser/stratatour/internal/app/system/auth"
	"github.com/dalemusser/stratatour/internal/app/system/jsonutil"
	"github.com/dalemusser/stratatour/internal/app/system/normalize"
	"go.uber.org/zap"
)

// MaxKeyLength bounds a settings key.
const MaxKeyLength = 128

// Store is the settings persistence the handler needs.
type Store interface {
	Get(ctx context.Context) (map[string]string, error)
	Replace(ctx context.Context, fields map[string]string, editorName string) error
}

// Handler handles settings API requests.
type Handler struct {
	store  Store
	audit  *auditlog.Logger
	logger *zap.Logger
}

// NewHandler creates a new settingsapi handler.
func NewHandler(store Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{store: store, audit: audit, logger: logger}
}

// Get handles GET /api/settings.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	fields, err := h.store.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to load settings", zap.Error(err))
		jsonutil.InternalError(w, "Failed to load settings")
		return
	}
	jsonutil.OK(w, fields)
}

// Replace handles PUT /api/settings.
//
// Request body: a flat JSON object of string values. Keys absent from the
// body are removed from the stored document.
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if err := jsonutil.Decode(w, r, &raw); err != nil {
		jsonutil.DecodeError(w, err)
		return
	}
	if raw == nil {
		jsonutil.BadRequest(w, "settings must be a JSON object")
		return
	}
	fields, err := validate(raw)
	if err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	editor := auth.EditorName(r.Context())
	if err := h.store.Replace(r.Context(), fields, editor); err != nil {
		h.logger.Error("failed to save settings", zap.Error(err), zap.String("editor", editor))
		jsonutil.InternalError(w, "Failed to save settings")
		return
	}
	h.audit.SettingsReplaced(r.Context(), r, len(fields))

	h.logger.Debug("settings replaced",
		zap.Int("keys", len(fields)),
		zap.String("editor", editor),
	)
	jsonutil.OK(w, fields)
}

// validate checks every key and value and returns the string map.
// Errors name the first offending key in sorted order so the message is
// stable.
func validate(raw map[string]json.RawMessage) (map[string]string, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make(map[string]string, len(raw))
	for _, k := range keys {
		if err := ValidKey(k); err != nil {
			return nil, err
		}
		var v *string
		if err := json.Unmarshal(raw[k], &v); err != nil || v == nil {
			return nil, fmt.Errorf("setting %q must be a string", k)
		}
		fields[k] = *v
	}
	return fields, nil
}

// ValidKey reports why k cannot be stored as a settings key, or nil.
func ValidKey(k string) error {
	switch {
	case k == "":
		return fmt.Errorf("setting keys must not be empty")
	case len(k) > MaxKeyLength:
		return fmt.Errorf("setting key %q is too long", normalize.Truncate(k, 32)+"...")
	case strings.HasPrefix(k, "$"):
		return fmt.Errorf("setting key %q must not start with $", k)
	case strings.Contains(k, "."):
		return fmt.Errorf("setting key %q must not contain '.'", k)
	case strings.ContainsRune(k, 0):
		return fmt.Errorf("setting key contains a NUL character")
	}
	return nil
}
