package auth

import (
	"errors"

	"go.uber.org/zap"

	"github.com/pollux-site/site-admin/internal/domain"
)

// SessionVerifier turns a Cookie header into an identity.
type SessionVerifier struct {
	tokens *TokenManager
	logger *zap.Logger
}

// NewSessionVerifier constructs a verifier around the token manager.
func NewSessionVerifier(tokens *TokenManager, logger *zap.Logger) *SessionVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionVerifier{tokens: tokens, logger: logger}
}

// Authenticate returns the identity in the session cookie, or false when the
// header is absent, the cookie is missing or the token does not verify.
// Failing to authenticate is an ordinary outcome, not an error.
func (v *SessionVerifier) Authenticate(cookieHeader string) (domain.Identity, bool) {
	token, ok := ParseCookieHeader(cookieHeader)[SessionCookieName]
	if !ok || token == "" {
		return domain.Anonymous, false
	}

	claims, err := v.tokens.ParseToken(token)
	if err != nil {
		if errors.Is(err, ErrMissingSecret) {
			v.logger.Error("JWT_SECRET is not configured; treating session as anonymous")
		}
		return domain.Anonymous, false
	}
	return claims.Identity(), true
}
