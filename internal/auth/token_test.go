package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollux-site/site-admin/internal/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenManager(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)

	t.Run("Given a secret When a token is generated and parsed Then the claims round trip", func(t *testing.T) {
		tm := NewTokenManager("secret", 3600, WithClock(fixedClock(issued)))

		token, expiresAt, err := tm.GenerateToken("admin", domain.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, issued.Add(time.Hour), expiresAt)
		assert.Equal(t, 2, strings.Count(token, "."))

		claims, err := tm.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Username)
		assert.Equal(t, domain.RoleAdmin, claims.Role)
		assert.Equal(t, ClaimsVersion, claims.Version)
		assert.Equal(t, issued.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, issued.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("Given a non-positive ttl When the manager is built Then the default ttl applies", func(t *testing.T) {
		assert.Equal(t, DefaultTokenTTL, NewTokenManager("secret", 0).TTL())
		assert.Equal(t, DefaultTokenTTL, NewTokenManager("secret", -5).TTL())
	})

	t.Run("Given a token When its payload is altered Then parsing fails", func(t *testing.T) {
		tm := NewTokenManager("secret", 3600, WithClock(fixedClock(issued)))
		token, _, err := tm.GenerateToken("admin", domain.RoleAdmin)
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		forged := base64.RawURLEncoding.EncodeToString(
			[]byte(`{"username":"mallory","role":"admin","ver":1,"exp":1900000000,"iat":1700000000}`))
		_, err = tm.ParseToken(parts[0] + "." + forged + "." + parts[2])
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Given a token When its signature is altered Then parsing fails", func(t *testing.T) {
		tm := NewTokenManager("secret", 3600, WithClock(fixedClock(issued)))
		token, _, err := tm.GenerateToken("admin", domain.RoleAdmin)
		require.NoError(t, err)

		last := token[len(token)-1]
		replacement := byte('A')
		if last == 'A' {
			replacement = 'B'
		}
		_, err = tm.ParseToken(token[:len(token)-1] + string(replacement))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Given a token signed with another secret When parsed Then it is rejected", func(t *testing.T) {
		other := NewTokenManager("other", 3600, WithClock(fixedClock(issued)))
		token, _, err := other.GenerateToken("admin", domain.RoleAdmin)
		require.NoError(t, err)

		_, err = NewTokenManager("secret", 3600, WithClock(fixedClock(issued))).ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Given malformed input When parsed Then it is rejected", func(t *testing.T) {
		tm := NewTokenManager("secret", 3600)
		for _, input := range []string{"", "abc", "a.b", "a.b.c.d", "...", "a.b.c"} {
			_, err := tm.ParseToken(input)
			assert.ErrorIs(t, err, ErrInvalidToken, "input %q", input)
		}
	})

	t.Run("Given a token When the clock passes exp Then it expires on the following second", func(t *testing.T) {
		now := issued
		tm := NewTokenManager("secret", 60, WithClock(func() time.Time { return now }))
		token, _, err := tm.GenerateToken("admin", domain.RoleAdmin)
		require.NoError(t, err)

		now = issued.Add(60*time.Second + 900*time.Millisecond)
		_, err = tm.ParseToken(token)
		assert.NoError(t, err, "still valid during the exp second")

		now = issued.Add(61 * time.Second)
		_, err = tm.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Given no secret When generating or parsing Then ErrMissingSecret is returned", func(t *testing.T) {
		tm := NewTokenManager("", 3600)
		assert.False(t, tm.HasSecret())

		_, _, err := tm.GenerateToken("admin", domain.RoleAdmin)
		assert.ErrorIs(t, err, ErrMissingSecret)

		_, err = tm.ParseToken("a.b.c")
		assert.ErrorIs(t, err, ErrMissingSecret)
	})

	t.Run("Given a token with another claims version When parsed Then it is rejected", func(t *testing.T) {
		claims := &Claims{
			Username: "admin",
			Role:     domain.RoleAdmin,
			Version:  ClaimsVersion + 1,
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(issued),
				ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = NewTokenManager("secret", 3600, WithClock(fixedClock(issued))).ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Given a token without exp When parsed Then it is rejected", func(t *testing.T) {
		claims := &Claims{Username: "admin", Role: domain.RoleAdmin, Version: ClaimsVersion}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = NewTokenManager("secret", 3600, WithClock(fixedClock(issued))).ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Given a token signed with another algorithm When parsed Then it is rejected", func(t *testing.T) {
		claims := &Claims{
			Username: "admin",
			Role:     domain.RoleAdmin,
			Version:  ClaimsVersion,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = NewTokenManager("secret", 3600, WithClock(fixedClock(issued))).ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
