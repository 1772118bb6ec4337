package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollux-site/site-admin/internal/config"
	"github.com/pollux-site/site-admin/internal/ratelimit"
)

type loginCounter map[string]int

func (c loginCounter) RecordLogin(outcome string) { c[outcome]++ }

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	const client = "203.0.113.7"

	newService := func(t *testing.T, cfg config.Config) (*AuthService, loginCounter) {
		limiter := ratelimit.NewLimiter(newAttemptRepo(t), nil, ratelimit.WithNow(clock))
		counter := loginCounter{}
		return NewAuthService(cfg, AuthDependencies{Limiter: limiter, Recorder: counter, Now: clock}), counter
	}

	t.Run("Given correct credentials When logging in Then a verifiable session cookie is issued", func(t *testing.T) {
		svc, counter := newService(t, testConfig())

		result, err := svc.Login(ctx, client, []byte(`{"username":"admin","password":"correct horse"}`))
		require.NoError(t, err)
		assert.Equal(t, now.Add(time.Hour), result.ExpiresAt)
		assert.True(t, strings.HasPrefix(result.Cookie, "admin_session="+result.Token))
		assert.Contains(t, result.Cookie, "Max-Age=3600")
		assert.NotContains(t, result.Cookie, "Secure")
		assert.Equal(t, 1, counter[LoginSucceeded])

		identity, ok := svc.Verify("admin_session=" + result.Token)
		assert.True(t, ok)
		assert.Equal(t, "admin", identity.Username)
	})

	t.Run("Given a deployed environment When logging in Then the cookie is Secure", func(t *testing.T) {
		cfg := testConfig()
		cfg.App.Env = "production"
		svc, _ := newService(t, cfg)

		result, err := svc.Login(ctx, client, []byte(`{"username":"admin","password":"correct horse"}`))
		require.NoError(t, err)
		assert.Contains(t, result.Cookie, "Secure")
		assert.Contains(t, svc.Logout(), "Secure")
	})

	t.Run("Given malformed JSON When logging in Then 400 Invalid request", func(t *testing.T) {
		svc, _ := newService(t, testConfig())

		_, err := svc.Login(ctx, client, []byte(`{"username":`))
		de := domainError(t, err)
		assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
		assert.Equal(t, "Invalid request", de.Message)
	})

	t.Run("Given a missing field When logging in Then 400 and no attempt is counted", func(t *testing.T) {
		svc, _ := newService(t, testConfig())

		for i := 0; i < 10; i++ {
			_, err := svc.Login(ctx, client, []byte(`{"username":"admin"}`))
			de := domainError(t, err)
			assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
			assert.Equal(t, "Username and password required", de.Message)
		}

		_, err := svc.Login(ctx, client, []byte(`{"username":"admin","password":"correct horse"}`))
		assert.NoError(t, err)
	})

	t.Run("Given a whitespace username When logging in Then it counts as a failed attempt", func(t *testing.T) {
		svc, counter := newService(t, testConfig())

		for i := 0; i < 5; i++ {
			_, err := svc.Login(ctx, client, []byte(`{"username":"  ","password":"nope"}`))
			assert.Equal(t, http.StatusUnauthorized, domainError(t, err).HTTPStatus)
		}
		assert.Equal(t, 5, counter[LoginRejected])

		_, err := svc.Login(ctx, client, []byte(`{"username":"admin","password":"correct horse"}`))
		assert.Equal(t, http.StatusTooManyRequests, domainError(t, err).HTTPStatus)
	})

	t.Run("Given wrong credentials When logging in Then 401 Invalid credentials", func(t *testing.T) {
		svc, counter := newService(t, testConfig())

		_, err := svc.Login(ctx, client, []byte(`{"username":"admin","password":"nope"}`))
		de := domainError(t, err)
		assert.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
		assert.Equal(t, "Invalid credentials", de.Message)
		assert.Equal(t, 1, counter[LoginRejected])
	})

	t.Run("Given five failures When the correct password is sent Then 429 with the retry message", func(t *testing.T) {
		svc, counter := newService(t, testConfig())
		for i := 0; i < 5; i++ {
			_, err := svc.Login(ctx, client, []byte(`{"username":"admin","password":"nope"}`))
			require.Error(t, err)
		}

		_, err := svc.Login(ctx, client, []byte(`{"username":"admin","password":"correct horse"}`))
		de := domainError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, de.HTTPStatus)
		assert.Equal(t, "Too many login attempts. Please try again in 15 minutes.", de.Message)
		assert.Equal(t, 15*time.Minute, de.RetryAfter)
		assert.Equal(t, 1, counter[LoginRateLimited])
	})

	t.Run("Given a locked out client When the body is malformed Then 429 still wins", func(t *testing.T) {
		svc, _ := newService(t, testConfig())
		for i := 0; i < 5; i++ {
			_, _ = svc.Login(ctx, client, []byte(`{"username":"admin","password":"nope"}`))
		}

		_, err := svc.Login(ctx, client, []byte(`not json`))
		assert.Equal(t, http.StatusTooManyRequests, domainError(t, err).HTTPStatus)
	})

	t.Run("Given four failures When the login succeeds Then the counter is cleared", func(t *testing.T) {
		svc, _ := newService(t, testConfig())
		for i := 0; i < 4; i++ {
			_, _ = svc.Login(ctx, client, []byte(`{"username":"admin","password":"nope"}`))
		}
		_, err := svc.Login(ctx, client, []byte(`{"username":"admin","password":"correct horse"}`))
		require.NoError(t, err)

		for i := 0; i < 4; i++ {
			_, _ = svc.Login(ctx, client, []byte(`{"username":"admin","password":"nope"}`))
		}
		_, err = svc.Login(ctx, client, []byte(`{"username":"admin","password":"correct horse"}`))
		assert.NoError(t, err)
	})

	t.Run("Given one locked out client When another client logs in Then it is unaffected", func(t *testing.T) {
		svc, _ := newService(t, testConfig())
		for i := 0; i < 5; i++ {
			_, _ = svc.Login(ctx, client, []byte(`{"username":"admin","password":"nope"}`))
		}

		_, err := svc.Login(ctx, "198.51.100.2", []byte(`{"username":"admin","password":"correct horse"}`))
		assert.NoError(t, err)
	})

	t.Run("Given no JWT secret When correct credentials are sent Then 500 configuration error", func(t *testing.T) {
		cfg := testConfig()
		cfg.Auth.JWTSecret = ""
		svc, counter := newService(t, cfg)

		_, err := svc.Login(ctx, client, []byte(`{"username":"admin","password":"correct horse"}`))
		de := domainError(t, err)
		assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
		assert.Equal(t, "CONFIGURATION_ERROR", de.Code)
		assert.Equal(t, "Server configuration error", de.Message)
		assert.Equal(t, 1, counter[LoginMisconfig])
	})

	t.Run("Given no limiter store When logging in Then the request fails open", func(t *testing.T) {
		svc := NewAuthService(testConfig(), AuthDependencies{Now: clock})

		for i := 0; i < 6; i++ {
			_, err := svc.Login(ctx, client, []byte(`{"username":"admin","password":"nope"}`))
			assert.Equal(t, http.StatusUnauthorized, domainError(t, err).HTTPStatus)
		}
	})
}

func TestAuthServiceLogout(t *testing.T) {
	svc := NewAuthService(testConfig(), AuthDependencies{})

	cookie := svc.Logout()
	assert.True(t, strings.HasPrefix(cookie, "admin_session=;"))
	assert.Contains(t, cookie, "Max-Age=0")

	_, ok := svc.Verify("admin_session=")
	assert.False(t, ok)
}
