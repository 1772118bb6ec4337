package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/pollux-site/site-admin/internal/domain"
)

// DefaultTokenTTL is used when a non-positive lifetime is configured.
const DefaultTokenTTL = 86400 * time.Second

// ClaimsVersion is bumped whenever the claims layout changes.
const ClaimsVersion = 1

var (
	// ErrInvalidToken is returned for every verification failure: malformed,
	// bad signature, expired or unknown claims version look the same.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingSecret means no signing secret is configured.
	ErrMissingSecret = errors.New("token signing secret is not configured")
)

// Claims describes the session token payload.
type Claims struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	Version  int         `json:"ver"`
	jwt.RegisteredClaims
}

// Identity returns the principal carried by the claims.
func (c *Claims) Identity() domain.Identity {
	return domain.Identity{Username: c.Username, Role: c.Role}
}

// TokenManager issues and validates HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) { tm.now = now }
}

// WithTokenLogger logs the reason behind rejected tokens at debug level.
func WithTokenLogger(logger *zap.Logger) TokenOption {
	return func(tm *TokenManager) { tm.logger = logger }
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlSeconds int, opts ...TokenOption) *TokenManager {
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	tm := &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// TTL is the lifetime of issued tokens.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// HasSecret reports whether a signing secret is configured.
func (tm *TokenManager) HasSecret() bool {
	return len(tm.secret) > 0
}

// GenerateToken builds and signs a token for the principal. iat and exp are
// always derived here from the manager's clock and ttl.
func (tm *TokenManager) GenerateToken(username string, role domain.Role) (string, time.Time, error) {
	if !tm.HasSecret() {
		return "", time.Time{}, ErrMissingSecret
	}

	issuedAt := tm.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		Username: username,
		Role:     role,
		Version:  ClaimsVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates the signature, expiry and claims version and returns
// the claims. Any failure is reported as ErrInvalidToken.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	if !tm.HasSecret() {
		return nil, ErrMissingSecret
	}
	if strings.Count(tokenStr, ".") != 2 {
		tm.reject("token must have three segments", nil)
		return nil, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		// exp is compared in whole seconds and a token stays valid through
		// the second named by exp.
		jwt.WithTimeFunc(func() time.Time { return tm.now().Truncate(time.Second) }),
		jwt.WithLeeway(time.Second),
	)
	if err != nil {
		tm.reject("token verification failed", err)
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		tm.reject("unexpected claims type", nil)
		return nil, ErrInvalidToken
	}
	if claims.Version != ClaimsVersion || claims.Username == "" {
		tm.reject("unsupported claims", nil)
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (tm *TokenManager) reject(reason string, err error) {
	fields := []zap.Field{zap.String("reason", reason)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	tm.logger.Debug("session token rejected", fields...)
}
