package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"face-attendance/domain/services"
)

func newAuthTestApp(stub *stubAuthService) *fiber.App {
	app := fiber.New()
	h := NewAuthHandler(stub)
	app.Post("/login", h.Login)
	app.Post("/signup", h.SignUp)
	return app
}

func TestLoginSuccess(t *testing.T) {
	app := newAuthTestApp(&stubAuthService{
		loginResult: &services.LoginResult{Token: "signed-token", Role: "admin"},
	})

	resp := performJSON(t, app, "POST", "/login", fiber.Map{
		"username": "alice",
		"password": "password1",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
			Role  string `json:"role"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)
	assert.True(t, body.Success)
	assert.Equal(t, "signed-token", body.Data.Token)
	assert.Equal(t, "admin", body.Data.Role)
}

func TestLoginUnknownAccountReturns404(t *testing.T) {
	app := newAuthTestApp(&stubAuthService{loginErr: services.ErrAccountNotFound})

	resp := performJSON(t, app, "POST", "/login", fiber.Map{
		"username": "ghost",
		"password": "password1",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestLoginWrongPasswordReturns401(t *testing.T) {
	app := newAuthTestApp(&stubAuthService{loginErr: services.ErrInvalidPassword})

	resp := performJSON(t, app, "POST", "/login", fiber.Map{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoginMissingFieldsReturns400(t *testing.T) {
	app := newAuthTestApp(&stubAuthService{})

	resp := performJSON(t, app, "POST", "/login", fiber.Map{"username": "alice"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSignUpSuccessReturns201(t *testing.T) {
	app := newAuthTestApp(&stubAuthService{})

	resp := performJSON(t, app, "POST", "/signup", fiber.Map{
		"username": "alice",
		"password": "password1",
		"role":     "user",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestSignUpDuplicateReturns409(t *testing.T) {
	app := newAuthTestApp(&stubAuthService{signUpErr: services.ErrUsernameTaken})

	resp := performJSON(t, app, "POST", "/signup", fiber.Map{
		"username": "alice",
		"password": "password1",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestSignUpRejectsBadRole(t *testing.T) {
	app := newAuthTestApp(&stubAuthService{})

	resp := performJSON(t, app, "POST", "/signup", fiber.Map{
		"username": "alice",
		"password": "password1",
		"role":     "superuser",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
