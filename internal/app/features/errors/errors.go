// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/stratatour/internal/app/system/jsonutil"
	"go.uber.org/zap"
)

// Handler answers requests no route claimed. Every response is a JSON
// error body so API clients never see an HTML page.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a new error Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// NotFound writes a 404 JSON error.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("no route",
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	)
	jsonutil.NotFound(w, "Not found")
}

// MethodNotAllowed writes a 405 JSON error.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("method not allowed",
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	)
	jsonutil.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}
