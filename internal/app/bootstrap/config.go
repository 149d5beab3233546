// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/stratatour/internal/app/system/auditlog"
	"github.com/dalemusser/stratatour/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "STRATATOUR"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, api_key, etc.
//   - Environment variables: STRATATOUR_MONGO_URI, STRATATOUR_API_KEY, etc.
//   - Command-line flags: --mongo_uri, --api_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "stratatour", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Editor API access
	{Name: "api_key", Default: "", Desc: "API key editors send as a Bearer token (empty rejects all API requests)"},
	{Name: "api_cors_origins", Default: "", Desc: "Comma-separated origins allowed to call /api (empty allows any)"},

	// Settings cache
	{Name: "redis_url", Default: "", Desc: "Redis URL for the settings cache (empty disables caching)"},
	{Name: "settings_cache_ttl", Default: "5m", Desc: "How long cached settings are served"},

	{Name: "seed_defaults", Default: true, Desc: "Create default pages and settings in an empty database"},

	// Audit logging
	{Name: "audit_log", Default: "all", Desc: "Audit logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_retention", Default: "2160h", Desc: "How long audit events are kept (0 keeps them forever)"},

	// Timeouts
	{Name: "timeout_ping", Default: "2s", Desc: "Timeout for dependency health pings"},
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document operations"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for bulk operations"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig reads .env files, config files,
// environment variables (WAFFLE_* for core, STRATATOUR_* for app) and
// flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		APIKey:         appValues.String("api_key"),
		APICORSOrigins: splitList(appValues.String("api_cors_origins")),

		RedisURL:         appValues.String("redis_url"),
		SettingsCacheTTL: appValues.Duration("settings_cache_ttl", 5*time.Minute),

		SeedDefaults: appValues.Bool("seed_defaults"),

		AuditLog:       appValues.String("audit_log"),
		AuditRetention: appValues.Duration("audit_retention", 90*24*time.Hour),

		TimeoutPing:  appValues.Duration("timeout_ping", timeouts.DefaultPing),
		TimeoutShort: appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutLong:  appValues.Duration("timeout_long", timeouts.DefaultLong),
	}

	return coreCfg, appCfg, nil
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if !auditlog.ValidMode(appCfg.AuditLog) {
		return fmt.Errorf("invalid audit_log %q: want all, db, log or off", appCfg.AuditLog)
	}
	if appCfg.AuditRetention < 0 {
		return fmt.Errorf("audit_retention must not be negative")
	}
	if appCfg.SettingsCacheTTL <= 0 && appCfg.RedisURL != "" {
		return fmt.Errorf("settings_cache_ttl must be positive when redis_url is set")
	}

	if appCfg.APIKey == "" {
		logger.Warn("api_key is empty; every /api request will be rejected")
	} else if len(appCfg.APIKey) < 16 && coreCfg.Env == "prod" {
		logger.Warn("api_key is shorter than 16 characters")
	}

	return nil
}
