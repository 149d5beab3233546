// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/stratatour/internal/app/store/audit"
	pagestore "github.com/dalemusser/stratatour/internal/app/store/pages"
	settingsstore "github.com/dalemusser/stratatour/internal/app/store/settings"
	"github.com/dalemusser/stratatour/internal/app/store/sitecache"
	"github.com/dalemusser/stratatour/internal/app/system/tasks"
	"github.com/dalemusser/stratatour/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema setup are complete,
// but before the HTTP handler is built. It applies the configured
// timeouts and starts the background jobs.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:  appCfg.TimeoutPing,
		Short: appCfg.TimeoutShort,
		Long:  appCfg.TimeoutLong,
	})

	startTaskRunner(appCfg, deps, logger)
	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

func startTaskRunner(appCfg AppConfig, deps DBDeps, logger *zap.Logger) {
	db := deps.MongoDatabase
	settings := sitecache.NewSettings(settingsstore.New(db), deps.SettingsCache, logger)

	taskRunner = tasks.New(logger)
	taskRunner.Register(tasks.AuditRetentionJob(audit.New(db), appCfg.AuditRetention, logger))
	taskRunner.Register(tasks.DanglingRulesJob(settings, pagestore.New(db), logger))
	taskRunner.Start()
}
