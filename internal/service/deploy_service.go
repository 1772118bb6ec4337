package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/pollux-site/site-admin/internal/events"
)

// DeployTrigger starts a site rebuild. *deploy.Hook satisfies it.
type DeployTrigger interface {
	Configured() bool
	Trigger(ctx context.Context) error
}

// DeployService rebuilds the static site when content changes.
type DeployService struct {
	dispatcher events.Dispatcher
	hook       DeployTrigger
	enabled    bool
	logger     *zap.Logger
}

// NewDeployService creates the service. The hook only fires when enabled,
// which main ties to running in a deployed environment.
func NewDeployService(dispatcher events.Dispatcher, hook DeployTrigger, enabled bool, logger *zap.Logger) *DeployService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeployService{
		dispatcher: dispatcher,
		hook:       hook,
		enabled:    enabled,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (d *DeployService) RegisterHandlers() {
	if d.dispatcher == nil {
		return
	}
	d.dispatcher.Subscribe(events.EventContentSaved, d.handleContentSaved)
}

// handleContentSaved never fails the save: hook errors are only logged.
func (d *DeployService) handleContentSaved(ctx context.Context, event events.Event) error {
	if !d.enabled || d.hook == nil || !d.hook.Configured() {
		d.logger.Info("deploy hook skipped", zap.String("event_id", event.ID))
		return nil
	}

	if err := d.hook.Trigger(ctx); err != nil {
		d.logger.Warn("deploy hook failed", zap.String("event_id", event.ID), zap.Error(err))
		return nil
	}

	d.logger.Info("deploy hook triggered", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return nil
}
