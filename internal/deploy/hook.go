// Package deploy triggers the static site rebuild after content changes.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultTimeout bounds a single hook call.
const DefaultTimeout = 10 * time.Second

// ErrNoURL is returned by Trigger when no hook URL is configured.
var ErrNoURL = errors.New("deploy hook url not configured")

// Hook posts to a build provider's deploy hook URL.
type Hook struct {
	url     string
	timeout time.Duration
}

// NewHook builds a hook client. A zero timeout uses DefaultTimeout.
func NewHook(url string, timeout time.Duration) *Hook {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Hook{url: url, timeout: timeout}
}

// Configured reports whether a URL is set.
func (h *Hook) Configured() bool {
	return h != nil && h.url != ""
}

// Trigger sends one POST to the hook. Non-2xx responses are errors.
func (h *Hook) Trigger(ctx context.Context) error {
	if !h.Configured() {
		return ErrNoURL
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := h.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Post(h.url)
	agent.ContentType(fiber.MIMEApplicationJSON)
	agent.Timeout(timeout)

	status, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("deploy hook request: %w", errors.Join(errs...))
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return fmt.Errorf("deploy hook returned status %d", status)
	}
	return nil
}
