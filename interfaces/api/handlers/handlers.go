package handlers

import (
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"face-attendance/domain/services"
	"face-attendance/infrastructure/redis"
)

// validate is shared across handlers for request payload validation.
var validate = validator.New()

// Services contains all the services needed for handlers
type Services struct {
	AuthService    services.AuthService
	AccountService services.AccountService
	FaceService    services.FaceService
	HistoryService services.HistoryService
}

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth    *AuthHandler
	Account *AccountHandler
	Face    *FaceHandler
	History *HistoryHandler
	Health  *HealthHandler
}

// NewHandlers creates a new instance of Handlers with all dependencies
func NewHandlers(services *Services, db *gorm.DB, cache *redis.RedisClient) *Handlers {
	return &Handlers{
		Auth:    NewAuthHandler(services.AuthService),
		Account: NewAccountHandler(services.AccountService),
		Face:    NewFaceHandler(services.FaceService),
		History: NewHistoryHandler(services.HistoryService),
		Health:  NewHealthHandler(db, cache),
	}
}
