package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"face-attendance/domain/models"
	"face-attendance/domain/services"
	"face-attendance/pkg/logger"
	"face-attendance/pkg/utils"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SignUpRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

// Login verifies credentials and returns a signed token plus the account role
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := validate.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Username and password are required", err)
	}

	result, err := h.authService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			return utils.NotFoundResponse(c, "Account not found")
		case errors.Is(err, services.ErrInvalidPassword):
			return utils.UnauthorizedResponse(c, "Invalid password")
		default:
			logger.AuthError("login_failed", "Login failed", err, map[string]interface{}{"username": req.Username})
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", err)
		}
	}

	return utils.SuccessResponse(c, "Login successful", result)
}

// SignUp creates a new account
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := validate.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid signup payload", err)
	}

	username, err := h.authService.SignUp(c.Context(), req.Username, req.Password, models.Role(req.Role))
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			return utils.ErrorResponse(c, fiber.StatusConflict, "Username already exists", err)
		}
		logger.AuthError("signup_failed", "Signup failed", err, map[string]interface{}{"username": req.Username})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Signup failed", err)
	}

	return utils.CreatedResponse(c, "Account created", fiber.Map{"username": username})
}

// Me returns the claims of the authenticated caller
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "Not authenticated")
	}

	return utils.SuccessResponse(c, "Authenticated", fiber.Map{
		"username": user.Username,
		"role":     user.Role,
	})
}
