package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pollux-site/site-admin/internal/domain"
	apperrors "github.com/pollux-site/site-admin/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// AdminTokenHeader carries the static save token.
const AdminTokenHeader = "X-Admin-Token"

// RequireSession admits requests carrying a valid session cookie and stores
// the identity in the request locals. It never accepts the admin token.
func RequireSession(verifier *SessionVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := verifier.Authenticate(c.Get(fiber.HeaderCookie))
		if !ok {
			return apperrors.NewUnauthorized("Unauthorized")
		}
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// RequireAdminToken admits requests whose X-Admin-Token header equals the
// configured static token. A session cookie is not consulted. When no token
// is configured every request is rejected.
func RequireAdminToken(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get(AdminTokenHeader)
		if token == "" || got == "" || !SecureEqual(token, got) {
			return apperrors.NewUnauthorized("Unauthorized")
		}
		return c.Next()
	}
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return domain.Anonymous, false
	}
	identity, ok := val.(domain.Identity)
	return identity, ok
}
