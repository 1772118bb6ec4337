// Package ratelimit throttles login attempts per client identifier using a
// fixed window counted in a persistent attempt store.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/pollux-site/site-admin/internal/repository"
)

const (
	// DefaultWindow is how long failures are counted from the first one.
	DefaultWindow = 15 * time.Minute
	// DefaultMaxAttempts failures within the window lock the identifier out.
	DefaultMaxAttempts = 5
)

// ErrStoreUnavailable wraps any failure of the attempt store during a check.
var ErrStoreUnavailable = errors.New("attempt store unavailable")

// Decision is the outcome of a rate limit check.
type Decision struct {
	Allowed bool
	// ResetAt is set when the identifier is locked out.
	ResetAt time.Time
	// FailOpen marks a decision that allowed the request only because the
	// store could not be consulted.
	FailOpen bool
}

// RetryAfter is the time left until ResetAt, never negative.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if d.ResetAt.IsZero() || !d.ResetAt.After(now) {
		return 0
	}
	return d.ResetAt.Sub(now)
}

// RetryMessage renders the lockout message shown to the client.
func (d Decision) RetryMessage(now time.Time) string {
	minutes := int(math.Ceil(d.RetryAfter(now).Minutes()))
	plural := "s"
	if minutes == 1 {
		plural = ""
	}
	return fmt.Sprintf("Too many login attempts. Please try again in %d minute%s.", minutes, plural)
}

// Recorder observes limiter outcomes. observability.Metrics satisfies it.
type Recorder interface {
	RecordRateLimitFailOpen()
	RecordRateLimitDenied()
}

// Limiter applies the attempt window over an AttemptRepository.
type Limiter struct {
	repo        repository.AttemptRepository
	logger      *zap.Logger
	window      time.Duration
	maxAttempts int
	now         func() time.Time
	recorder    Recorder
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithWindow overrides the attempt window.
func WithWindow(window time.Duration) Option {
	return func(l *Limiter) {
		if window > 0 {
			l.window = window
		}
	}
}

// WithMaxAttempts overrides the lockout threshold.
func WithMaxAttempts(max int) Option {
	return func(l *Limiter) {
		if max > 0 {
			l.maxAttempts = max
		}
	}
}

// WithNow replaces time.Now.
func WithNow(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithRecorder reports lockouts and fail-open decisions.
func WithRecorder(r Recorder) Option {
	return func(l *Limiter) { l.recorder = r }
}

// NewLimiter builds a limiter. A nil repo is allowed and behaves like an
// unavailable store.
func NewLimiter(repo repository.AttemptRepository, logger *zap.Logger, opts ...Option) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Limiter{
		repo:        repo,
		logger:      logger,
		window:      DefaultWindow,
		maxAttempts: DefaultMaxAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Now returns the limiter's current time.
func (l *Limiter) Now() time.Time {
	return l.now()
}

// Check consults the store. The error is non-nil only when the store could
// not answer, and then wraps ErrStoreUnavailable.
func (l *Limiter) Check(ctx context.Context, id string) (Decision, error) {
	if l.repo == nil {
		return Decision{}, fmt.Errorf("%w: no store configured", ErrStoreUnavailable)
	}

	record, err := l.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return Decision{Allowed: true}, nil
	}
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	now := l.now()
	if record.ExpiredAt(now, l.window) {
		return Decision{Allowed: true}, nil
	}
	if record.Attempts >= l.maxAttempts {
		return Decision{Allowed: false, ResetAt: record.ResetAt(l.window)}, nil
	}
	return Decision{Allowed: true}, nil
}

// CheckAllowed is Check with the fail-open policy applied: when the store is
// unavailable the login path stays open.
func (l *Limiter) CheckAllowed(ctx context.Context, id string) Decision {
	decision, err := l.Check(ctx, id)
	if err != nil {
		l.logger.Warn("rate limit check failed; allowing request", zap.String("client", id), zap.Error(err))
		if l.recorder != nil {
			l.recorder.RecordRateLimitFailOpen()
		}
		return Decision{Allowed: true, FailOpen: true}
	}
	if !decision.Allowed && l.recorder != nil {
		l.recorder.RecordRateLimitDenied()
	}
	return decision
}

// RecordFailure counts a failed login. Store errors are logged and dropped.
func (l *Limiter) RecordFailure(ctx context.Context, id string) {
	if l.repo == nil {
		return
	}
	if err := l.repo.RecordFailure(ctx, id, l.now(), l.window); err != nil {
		l.logger.Error("failed to record login attempt", zap.String("client", id), zap.Error(err))
	}
}

// Clear forgets all failures for the identifier. Store errors are logged and dropped.
func (l *Limiter) Clear(ctx context.Context, id string) {
	if l.repo == nil {
		return
	}
	if err := l.repo.Delete(ctx, id); err != nil {
		l.logger.Error("failed to clear login attempts", zap.String("client", id), zap.Error(err))
	}
}
