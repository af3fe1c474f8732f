package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"face-attendance/pkg/logger"
	"face-attendance/pkg/utils"
)

// Protected validates the bearer token and stores the caller's identity in
// c.Locals("user").
func Protected(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.UnauthorizedResponse(c, "Missing authorization header")
		}

		token := utils.ExtractTokenFromHeader(authHeader)
		if token == "" {
			return utils.UnauthorizedResponse(c, "Invalid authorization header format")
		}

		userCtx, err := utils.ValidateToken(token, jwtSecret)
		if err != nil {
			logger.Auth("token_rejected", "Token validation failed", map[string]interface{}{
				"path":  c.Path(),
				"error": err.Error(),
			})
			switch {
			case errors.Is(err, utils.ErrExpiredToken):
				return utils.UnauthorizedResponse(c, "Token has expired")
			case errors.Is(err, utils.ErrMissingToken):
				return utils.UnauthorizedResponse(c, "Missing token")
			default:
				return utils.UnauthorizedResponse(c, "Invalid token")
			}
		}

		c.Locals("user", userCtx)
		return c.Next()
	}
}

// RequireRole checks the role claim of an already-authenticated caller.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := utils.GetUserFromContext(c)
		if err != nil {
			return utils.UnauthorizedResponse(c, "User not authenticated")
		}

		if user.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Insufficient permissions",
				"error":   "Access denied",
			})
		}

		return c.Next()
	}
}

// AdminOnly ensures only admin accounts can access
func AdminOnly() fiber.Handler {
	return RequireRole("admin")
}
