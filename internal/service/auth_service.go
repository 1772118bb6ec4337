package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/pollux-site/site-admin/internal/auth"
	"github.com/pollux-site/site-admin/internal/config"
	"github.com/pollux-site/site-admin/internal/domain"
	"github.com/pollux-site/site-admin/internal/ratelimit"
	apperrors "github.com/pollux-site/site-admin/pkg/util/errorutil"
)

// Login outcomes reported to the LoginRecorder.
const (
	LoginSucceeded   = "success"
	LoginInvalid     = "invalid_request"
	LoginRejected    = "bad_credentials"
	LoginRateLimited = "rate_limited"
	LoginMisconfig   = "configuration_error"
)

// LoginRecorder counts login outcomes. observability.Metrics satisfies it.
type LoginRecorder interface {
	RecordLogin(outcome string)
}

// LoginRequest is the JSON body of a login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult carries what a successful login hands back to the client.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Cookie    string
}

// AuthService runs the single-administrator login flow.
type AuthService struct {
	cfg          config.AuthConfig
	tokenMgr     *auth.TokenManager
	verifier     *auth.SessionVerifier
	limiter      *ratelimit.Limiter
	secureCookie bool
	logger       *zap.Logger
	recorder     LoginRecorder
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Limiter  *ratelimit.Limiter
	Logger   *zap.Logger
	Recorder LoginRecorder
	// Now replaces time.Now for token timestamps.
	Now func() time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limiter := deps.Limiter
	if limiter == nil {
		limiter = ratelimit.NewLimiter(nil, logger)
	}

	opts := []auth.TokenOption{auth.WithTokenLogger(logger)}
	if deps.Now != nil {
		opts = append(opts, auth.WithClock(deps.Now))
	}
	tokenMgr := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLSeconds, opts...)

	return &AuthService{
		cfg:          cfg.Auth,
		tokenMgr:     tokenMgr,
		verifier:     auth.NewSessionVerifier(tokenMgr, logger),
		limiter:      limiter,
		secureCookie: cfg.App.IsDeployed(),
		logger:       logger,
		recorder:     deps.Recorder,
	}
}

// Login runs one attempt: rate limit, body validation, credential check,
// then token issue. Failed credentials are counted against clientID; a
// success clears the count. There is no retry inside a single call.
func (s *AuthService) Login(ctx context.Context, clientID string, body []byte) (*LoginResult, error) {
	decision := s.limiter.CheckAllowed(ctx, clientID)
	if !decision.Allowed {
		now := s.limiter.Now()
		s.record(LoginRateLimited)
		s.logger.Info("login rate limited", zap.String("client", clientID), zap.Time("reset_at", decision.ResetAt))
		return nil, apperrors.NewRateLimited(decision.RetryMessage(now), decision.RetryAfter(now))
	}

	var req LoginRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.record(LoginInvalid)
		return nil, apperrors.NewValidationError("Invalid request", nil)
	}
	if req.Username == "" || req.Password == "" {
		s.record(LoginInvalid)
		return nil, apperrors.NewValidationError("Username and password required", nil)
	}

	if !auth.CredentialsMatch(s.cfg.AdminUsername, s.cfg.AdminPassword, req.Username, req.Password) {
		s.limiter.RecordFailure(ctx, clientID)
		s.record(LoginRejected)
		s.logger.Info("login rejected", zap.String("client", clientID))
		return nil, apperrors.NewUnauthorized("Invalid credentials")
	}

	s.limiter.Clear(ctx, clientID)

	token, expiresAt, err := s.tokenMgr.GenerateToken(req.Username, domain.RoleAdmin)
	if err != nil {
		s.record(LoginMisconfig)
		s.logger.Error("unable to issue session token", zap.Error(err))
		return nil, apperrors.NewConfigurationError(err)
	}

	s.record(LoginSucceeded)
	s.logger.Info("login succeeded", zap.String("client", clientID), zap.String("username", req.Username))
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Cookie:    auth.SessionCookie(token, s.tokenMgr.TTL(), s.secureCookie),
	}, nil
}

// Logout returns the Set-Cookie value that clears the session. Tokens are
// stateless, so nothing is revoked server side.
func (s *AuthService) Logout() string {
	return auth.ClearSessionCookie(s.secureCookie)
}

// Verify resolves the session cookie in a Cookie header.
func (s *AuthService) Verify(cookieHeader string) (domain.Identity, bool) {
	return s.verifier.Authenticate(cookieHeader)
}

// Verifier exposes the session verifier for route middleware.
func (s *AuthService) Verifier() *auth.SessionVerifier {
	return s.verifier
}

func (s *AuthService) record(outcome string) {
	if s.recorder != nil {
		s.recorder.RecordLogin(outcome)
	}
}
