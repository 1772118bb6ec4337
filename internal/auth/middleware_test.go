package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollux-site/site-admin/internal/domain"
	apperrors "github.com/pollux-site/site-admin/pkg/util/errorutil"
)

func newProtectedApp(guard fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).SendString(domainErr.Message)
		},
	})
	app.Get("/protected", guard, func(c *fiber.Ctx) error {
		identity, _ := IdentityFromContext(c)
		return c.SendString("hello " + identity.Username)
	})
	return app
}

func TestRequireAdminToken(t *testing.T) {
	cases := []struct {
		name       string
		configured string
		header     string
		status     int
	}{
		{"Given the matching token When requested Then it passes", "s3cret", "s3cret", fiber.StatusOK},
		{"Given a wrong token When requested Then it is rejected", "s3cret", "nope", fiber.StatusUnauthorized},
		{"Given no header When requested Then it is rejected", "s3cret", "", fiber.StatusUnauthorized},
		{"Given no configured token When requested with an empty header Then it is rejected", "", "", fiber.StatusUnauthorized},
		{"Given no configured token When requested with any header Then it is rejected", "", "anything", fiber.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newProtectedApp(RequireAdminToken(tc.configured))

			req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set(AdminTokenHeader, tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRequireSession(t *testing.T) {
	tm := NewTokenManager("secret", 3600)
	verifier := NewSessionVerifier(tm, nil)
	token, _, err := tm.GenerateToken("admin", domain.RoleAdmin)
	require.NoError(t, err)

	t.Run("Given a valid session cookie When requested Then the identity reaches the handler", func(t *testing.T) {
		app := newProtectedApp(RequireSession(verifier))

		req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
		req.Header.Set(fiber.HeaderCookie, SessionCookieName+"="+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("Given only the admin token header When requested Then the session guard rejects it", func(t *testing.T) {
		app := newProtectedApp(RequireSession(verifier))

		req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
		req.Header.Set(AdminTokenHeader, token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Given an expired session When requested Then it is rejected", func(t *testing.T) {
		issued := time.Now().Add(-2 * time.Hour)
		old := NewTokenManager("secret", 60, WithClock(fixedClock(issued)))
		expired, _, err := old.GenerateToken("admin", domain.RoleAdmin)
		require.NoError(t, err)

		app := newProtectedApp(RequireSession(verifier))
		req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
		req.Header.Set(fiber.HeaderCookie, SessionCookieName+"="+expired)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
