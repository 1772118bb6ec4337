package worker

import (
	"go.uber.org/zap"

	"github.com/pollux-site/site-admin/internal/config"
	"github.com/pollux-site/site-admin/internal/deploy"
	"github.com/pollux-site/site-admin/internal/events"
	"github.com/pollux-site/site-admin/internal/service"
)

// StartDeployWorker subscribes the deploy hook to ContentSaved. The hook only
// fires in a deployed environment with DEPLOY_HOOK_URL set; otherwise saves
// are logged and skipped.
func StartDeployWorker(dispatcher events.Dispatcher, cfg config.Config, logger *zap.Logger) *service.DeployService {
	if dispatcher == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	hook := deploy.NewHook(cfg.Content.DeployHookURL, deploy.DefaultTimeout)
	enabled := cfg.App.IsDeployed()
	switch {
	case !hook.Configured():
		logger.Info("deploy hook disabled: DEPLOY_HOOK_URL not set")
	case !enabled:
		logger.Info("deploy hook disabled outside deployed environments", zap.String("env", cfg.App.Env))
	default:
		logger.Info("deploy hook enabled")
	}

	svc := service.NewDeployService(dispatcher, hook, enabled, logger)
	svc.RegisterHandlers()
	return svc
}
