package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pqrssi-service/internal/api/dto"
	"github.com/spec-kit/pqrssi-service/internal/auth"
	"github.com/spec-kit/pqrssi-service/internal/service"
	apperrors "github.com/spec-kit/pqrssi-service/pkg/util"
)

// AdminHandler manages administrator endpoints.
type AdminHandler struct {
	lifecycle *service.LifecycleService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(lifecycle *service.LifecycleService) *AdminHandler {
	return &AdminHandler{lifecycle: lifecycle}
}

// List GET /admin/requests.
func (h *AdminHandler) List(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("login required")
	}
	summaries, err := h.lifecycle.ListForViewer(c.Context(), session.UserID, true)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summaryResponses(summaries)})
}

// ChangeStatus POST /admin/requests/:id/status.
func (h *AdminHandler) ChangeStatus(c *fiber.Ctx) error {
	requestID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ChangeStatusPayload
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.StatusID <= 0 {
		return apperrors.NewValidationError("status_id required", nil)
	}

	request, err := h.lifecycle.ChangeStatus(c.Context(), requestID, req.StatusID, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestResponse(request)})
}

// Statuses GET /admin/statuses.
func (h *AdminHandler) Statuses(c *fiber.Ctx) error {
	statuses, err := h.lifecycle.Statuses(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.ReferenceItem, 0, len(statuses))
	for _, status := range statuses {
		items = append(items, dto.ReferenceItem{ID: status.ID, Name: status.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}
