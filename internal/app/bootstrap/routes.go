// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	auditlogfeature "github.com/dalemusser/stratatour/internal/app/features/auditlog"
	errorsfeature "github.com/dalemusser/stratatour/internal/app/features/errors"
	healthfeature "github.com/dalemusser/stratatour/internal/app/features/health"
	pagesapifeature "github.com/dalemusser/stratatour/internal/app/features/pagesapi"
	settingsapifeature "github.com/dalemusser/stratatour/internal/app/features/settingsapi"
	"github.com/dalemusser/stratatour/internal/app/store/audit"
	pagestore "github.com/dalemusser/stratatour/internal/app/store/pages"
	settingsstore "github.com/dalemusser/stratatour/internal/app/store/settings"
	"github.com/dalemusser/stratatour/internal/app/store/sitecache"
	"github.com/dalemusser/stratatour/internal/app/system/apicors"
	"github.com/dalemusser/stratatour/internal/app/system/auditlog"
	"github.com/dalemusser/stratatour/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// Routes:
//   - /health, /ready, /readyz, /livez: probes, no auth
//   - /api/settings: whole-document settings read and replace
//   - /api/pages: page catalog and per-slug page CRUD plus preview
//   - /api/audit: audit trail of editor changes
//
// Everything under /api requires the configured API key as a Bearer token.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	auditStore := audit.New(db)
	auditLogger := auditlog.New(auditStore, logger, appCfg.AuditLog)

	settings := sitecache.NewSettings(settingsstore.New(db), deps.SettingsCache, logger)
	pages := pagestore.New(db)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// ─────────────────────────────────────────────────────────────────────────────
	// Routes
	// ─────────────────────────────────────────────────────────────────────────────

	checks := map[string]healthfeature.Pinger{"mongodb": healthfeature.Mongo(deps.MongoClient)}
	if deps.SettingsCache != nil {
		checks["redis"] = deps.SettingsCache.Ping
	}
	healthHandler := healthfeature.NewHandler(checks, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	r.Route("/api", func(api chi.Router) {
		api.Use(apicors.MiddlewareWithOrigins(appCfg.APICORSOrigins...))
		api.Use(auth.APIKeyAuth(appCfg.APIKey, logger))

		api.Mount("/settings", settingsapifeature.Routes(
			settingsapifeature.NewHandler(settings, auditLogger, logger)))
		api.Mount("/pages", pagesapifeature.Routes(
			pagesapifeature.NewHandler(pages, settings, auditLogger, logger)))
		api.Mount("/audit", auditlogfeature.Routes(
			auditlogfeature.NewHandler(auditStore, logger)))
	})

	errorsHandler := errorsfeature.NewHandler(logger)
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	return r, nil
}
