// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers ports, TLS, logging, CORS for the root router
// and request limits. AppConfig carries what this content service needs on
// top of that: storage, the editor API key, the settings cache and
// background job tuning.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// API key editors present as a Bearer token on /api routes.
	// Empty rejects every API request.
	APIKey string

	// Origins allowed to call /api from a browser. Empty allows any origin.
	APICORSOrigins []string

	// Redis settings cache. Empty RedisURL disables caching.
	RedisURL         string
	SettingsCacheTTL time.Duration

	// Seed default pages and settings into an empty database.
	SeedDefaults bool

	// Audit logging: "all" (MongoDB + zap), "db", "log" or "off".
	AuditLog string
	// How long audit events are kept. Zero keeps them forever.
	AuditRetention time.Duration

	// Operation timeouts
	TimeoutPing  time.Duration
	TimeoutShort time.Duration
	TimeoutLong  time.Duration
}
