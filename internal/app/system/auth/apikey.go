// Package auth authenticates API callers.
//
// Editors call the API with "Authorization: Bearer <api-key>" and name
// themselves in X-Editor-Name. The name is recorded on writes for audit.
package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/dalemusser/stratatour/internal/app/system/jsonutil"
	"github.com/dalemusser/stratatour/internal/app/system/normalize"
	"go.uber.org/zap"
)

// EditorHeader carries the display name of the editor making the request.
const EditorHeader = "X-Editor-Name"

// maxEditorName bounds the stored editor name, in bytes.
const maxEditorName = 100

type ctxKey struct{}

// EditorName returns the editor name recorded by APIKeyAuth, or "".
func EditorName(ctx context.Context) string {
	name, _ := ctx.Value(ctxKey{}).(string)
	return name
}

// WithEditorName returns ctx carrying name.
func WithEditorName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ctxKey{}, name)
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// APIKeyAuth returns middleware that requires the configured API key as a
// bearer token. When validKey is empty every request is rejected.
func APIKeyAuth(validKey string, logger *zap.Logger) func(http.Handler) http.Handler {
	if validKey == "" {
		logger.Warn("API key not configured - all API requests will be rejected")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validKey == "" {
				logger.Warn("API request rejected: API key not configured",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				jsonutil.Unauthorized(w, "API authentication not configured")
				return
			}

			if r.Header.Get("Authorization") == "" {
				logger.Debug("API request rejected: missing Authorization header",
					zap.String("path", r.URL.Path),
				)
				jsonutil.Unauthorized(w, "Missing Authorization header")
				return
			}

			token, ok := BearerToken(r)
			if !ok {
				logger.Debug("API request rejected: invalid Authorization format",
					zap.String("path", r.URL.Path),
				)
				jsonutil.Unauthorized(w, "Invalid Authorization format (expected: Bearer <api-key>)")
				return
			}

			if subtle.ConstantTimeCompare([]byte(token), []byte(validKey)) != 1 {
				logger.Warn("API request rejected: invalid API key",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				jsonutil.Unauthorized(w, "Invalid API key")
				return
			}

			name := normalize.Truncate(normalize.Name(r.Header.Get(EditorHeader)), maxEditorName)
			next.ServeHTTP(w, r.WithContext(WithEditorName(r.Context(), name)))
		})
	}
}
