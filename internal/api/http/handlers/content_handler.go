package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/pollux-site/site-admin/internal/api/dto"
	"github.com/pollux-site/site-admin/internal/service"
	apperrors "github.com/pollux-site/site-admin/pkg/util/errorutil"
)

// ContentHandler exposes the editable site fields.
type ContentHandler struct {
	content *service.ContentService
}

// NewContentHandler constructs handler.
func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{content: contentService}
}

// Save handles POST /api/save. The body is a JSON object of field -> text.
func (h *ContentHandler) Save(c *fiber.Ctx) error {
	var updates map[string]any
	if err := json.Unmarshal(c.Body(), &updates); err != nil {
		return apperrors.NewValidationError("Invalid JSON", nil)
	}

	updated, err := h.content.Save(c.UserContext(), updates)
	if err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse{Success: true, Updated: &updated})
}

// List handles GET /api/content for the static site build.
func (h *ContentHandler) List(c *fiber.Ctx) error {
	content, err := h.content.All(c.UserContext())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.JSON(content)
}

// Draft handles GET /api/admin/content for a signed-in editor.
func (h *ContentHandler) Draft(c *fiber.Ctx) error {
	content, err := h.content.All(c.UserContext())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(content)
}
