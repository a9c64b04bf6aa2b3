// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/config"
	userstore "github.com/eventra/eventra/internal/app/store/users"
	"github.com/eventra/eventra/internal/app/system/tasks"
	"go.uber.org/zap"
)

// unverifiedAccountMaxAge is how long a registration may sit unverified
// before the purge job reclaims its username and email.
const unverifiedAccountMaxAge = 7 * 24 * time.Hour

// jobRunner is started here and stopped in Shutdown.
var jobRunner *tasks.Runner

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SendGridAPIKey == "" {
		logger.Warn("sendgrid_api_key not set; email delivery disabled")
	}
	if appCfg.CloudinaryAPISecret == "" {
		logger.Warn("cloudinary credentials not set; upload signing disabled")
	}

	jobRunner = tasks.NewRunner(logger,
		tasks.UnverifiedAccountPurgeJob(userstore.New(deps.MongoDatabase), logger, unverifiedAccountMaxAge),
	)
	jobRunner.Start()
	return nil
}
