package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"face-attendance/domain/models"
	"face-attendance/domain/services"
	"face-attendance/pkg/utils"
)

type AccountHandler struct {
	accountService services.AccountService
}

func NewAccountHandler(accountService services.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

type UpdateAccountRequest struct {
	Role     *string `json:"role" validate:"omitempty,oneof=admin user"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

// List returns username and role of every account
func (h *AccountHandler) List(c *fiber.Ctx) error {
	accounts, err := h.accountService.List(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list accounts", err)
	}
	return utils.SuccessResponse(c, "Accounts retrieved", accounts)
}

// ListDetails returns the full account rows (passwords excluded by the model)
func (h *AccountHandler) ListDetails(c *fiber.Ctx) error {
	accounts, err := h.accountService.ListDetails(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list accounts", err)
	}
	return utils.SuccessResponse(c, "Accounts retrieved", accounts)
}

// GetByUsername looks an account up by username. The route parameter is named
// account_id for historical reasons but has always carried a username.
func (h *AccountHandler) GetByUsername(c *fiber.Ctx) error {
	username := c.Params("account_id")

	account, err := h.accountService.GetByUsername(c.Context(), username)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			return utils.NotFoundResponse(c, "Account not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get account", err)
	}
	return utils.SuccessResponse(c, "Account retrieved", account)
}

// Update applies a partial update to the account named in the path
func (h *AccountHandler) Update(c *fiber.Ctx) error {
	username := c.Params("username")

	var req UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := validate.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid update payload", err)
	}

	input := services.UpdateAccountInput{
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		input.Role = &role
	}

	if err := h.accountService.Update(c.Context(), username, input); err != nil {
		switch {
		case errors.Is(err, services.ErrNoFieldsToUpdate):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "No fields to update", err)
		case errors.Is(err, services.ErrAccountNotFound):
			return utils.NotFoundResponse(c, "Account not found")
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update account", err)
		}
	}
	return utils.SuccessResponse(c, "Account updated", fiber.Map{"username": username})
}

// Statistics returns the bare counters object consumed by the dashboard
func (h *AccountHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.accountService.Statistics(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute statistics", err)
	}
	return c.JSON(stats)
}
