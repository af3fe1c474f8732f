package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"face-attendance/domain/services"
	"face-attendance/pkg/utils"
)

type HistoryHandler struct {
	historyService services.HistoryService
}

func NewHistoryHandler(historyService services.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
	}
}

type CreateHistoryRequest struct {
	AccountID int64  `json:"account_id" validate:"required"`
	Image     string `json:"image" validate:"required"`
}

// Create records a check-in with its snapshot
func (h *HistoryHandler) Create(c *fiber.Ctx) error {
	var req CreateHistoryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := validate.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Account id and image are required", err)
	}

	entry, err := h.historyService.Create(c.Context(), req.AccountID, req.Image)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			return utils.NotFoundResponse(c, "Account not found")
		case errors.Is(err, utils.ErrEmptyImage), errors.Is(err, utils.ErrInvalidImage):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid image payload", err)
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to record entry", err)
		}
	}

	return utils.CreatedResponse(c, "Entry recorded", entry)
}

// Delete removes an entry row and its snapshot
func (h *HistoryHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid history id", err)
	}

	if err := h.historyService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrHistoryNotFound) {
			return utils.NotFoundResponse(c, "History record not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete history record", err)
	}
	return utils.SuccessResponse(c, "History record deleted", fiber.Map{"id": id})
}

// ListAll returns every entry joined with account display details
func (h *HistoryHandler) ListAll(c *fiber.Ctx) error {
	rows, err := h.historyService.ListAll(c.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoRecords) {
			return utils.NotFoundResponse(c, "No history records found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list history", err)
	}
	return utils.SuccessResponse(c, "History retrieved", rows)
}

// List returns the bare entry rows
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	rows, err := h.historyService.List(c.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoRecords) {
			return utils.NotFoundResponse(c, "No history records found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list history", err)
	}
	return utils.SuccessResponse(c, "History retrieved", rows)
}

// ListByAccount returns the joined entries of one account
func (h *HistoryHandler) ListByAccount(c *fiber.Ctx) error {
	accountID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid account id", err)
	}

	rows, err := h.historyService.ListByAccount(c.Context(), accountID)
	if err != nil {
		if errors.Is(err, services.ErrNoRecords) {
			return utils.NotFoundResponse(c, "No history records found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list history", err)
	}
	return utils.SuccessResponse(c, "History retrieved", rows)
}

// Statistics returns the bare counters object consumed by the dashboard
func (h *HistoryHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.historyService.Statistics(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute statistics", err)
	}
	return c.JSON(stats)
}
