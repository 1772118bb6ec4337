package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pollux-site/site-admin/internal/api/dto"
	"github.com/pollux-site/site-admin/internal/ratelimit"
	"github.com/pollux-site/site-admin/internal/service"
)

// AuthHandler exposes the admin session endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	clientID := ratelimit.ClientIdentifier(func(name string) string { return c.Get(name) })

	result, err := h.auth.Login(c.UserContext(), clientID, c.Body())
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderSetCookie, result.Cookie)
	return c.JSON(dto.SuccessResponse{Success: true})
}

// Logout handles POST /api/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Set(fiber.HeaderSetCookie, h.auth.Logout())
	return c.JSON(dto.SuccessResponse{Success: true})
}

// Verify handles GET /api/verify. It always answers 200.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	identity, ok := h.auth.Verify(c.Get(fiber.HeaderCookie))
	if !ok {
		return c.JSON(dto.VerifyResponse{Authenticated: false})
	}
	return c.JSON(dto.VerifyResponse{Authenticated: true, Username: identity.Username})
}
