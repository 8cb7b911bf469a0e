package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pqrssi-service/internal/api/dto"
	"github.com/spec-kit/pqrssi-service/internal/auth"
	"github.com/spec-kit/pqrssi-service/internal/domain"
	"github.com/spec-kit/pqrssi-service/internal/service"
	apperrors "github.com/spec-kit/pqrssi-service/pkg/util"
)

// RequestsHandler manages citizen-facing request endpoints.
type RequestsHandler struct {
	lifecycle *service.LifecycleService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(lifecycle *service.LifecycleService) *RequestsHandler {
	return &RequestsHandler{lifecycle: lifecycle}
}

// Create POST /requests.
func (h *RequestsHandler) Create(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("login required")
	}
	var req dto.CreateRequestPayload
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.RequestCreateInput{
		Type:        req.Type,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}
	request, err := h.lifecycle.CreateRequest(c.Context(), session.UserID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": requestResponse(request)})
}

// List GET /requests.
func (h *RequestsHandler) List(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("login required")
	}
	summaries, err := h.lifecycle.ListForViewer(c.Context(), session.UserID, session.IsAdmin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summaryResponses(summaries)})
}

// ListMine GET /requests/mine.
func (h *RequestsHandler) ListMine(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("login required")
	}
	summaries, err := h.lifecycle.ListOwn(c.Context(), session.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summaryResponses(summaries)})
}

// History GET /requests/:id/history.
func (h *RequestsHandler) History(c *fiber.Ctx) error {
	requestID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	history, err := h.lifecycle.History(c.Context(), requestID)
	if err != nil {
		return err
	}
	items := make([]dto.HistoryEntryResponse, 0, len(history))
	for _, entry := range history {
		items = append(items, dto.HistoryEntryResponse{
			ID:        entry.ID,
			StatusID:  entry.StatusID,
			Status:    entry.Status,
			Comment:   entry.Comment,
			CreatedAt: entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Categories GET /categories.
func (h *RequestsHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.lifecycle.Categories(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.ReferenceItem, 0, len(categories))
	for _, category := range categories {
		items = append(items, dto.ReferenceItem{ID: category.ID, Name: category.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}

func requestResponse(request *domain.Request) dto.RequestResponse {
	return dto.RequestResponse{
		ID:          request.ID,
		Type:        request.Type,
		Description: request.Description,
		StatusID:    request.StatusID,
		CategoryID:  request.CategoryID,
		CreatedAt:   request.CreatedAt,
	}
}

func summaryResponses(summaries []domain.RequestSummary) []dto.RequestSummaryResponse {
	items := make([]dto.RequestSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, dto.RequestSummaryResponse{
			ID:          summary.ID,
			Type:        summary.Type,
			Description: summary.Description,
			Status:      summary.Status,
			Category:    summary.Category,
			Submitter:   summary.Submitter,
			CreatedAt:   summary.CreatedAt,
		})
	}
	return items
}

func parseID(c *fiber.Ctx, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"param": param})
	}
	return id, nil
}
