package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"face-attendance/infrastructure/redis"
)

type HealthHandler struct {
	db    *gorm.DB
	cache *redis.RedisClient
}

func NewHealthHandler(db *gorm.DB, cache *redis.RedisClient) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cache,
	}
}

type componentHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Status     string                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]componentHealth `json:"components"`
}

// Check reports database and cache connectivity. A degraded cache does not
// fail the check since the API works without it.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	response := healthResponse{
		Status:     "ok",
		Timestamp:  time.Now(),
		Components: map[string]componentHealth{},
	}

	response.Components["database"] = h.checkDatabase(ctx)
	if response.Components["database"].Status != "ok" {
		response.Status = "error"
	}

	response.Components["redis"] = h.checkRedis(ctx)
	if response.Components["redis"].Status != "ok" && response.Status == "ok" {
		response.Status = "degraded"
	}

	status := fiber.StatusOK
	if response.Status == "error" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) componentHealth {
	if h.db == nil {
		return componentHealth{Status: "error", Error: "not configured"}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return componentHealth{Status: "error", Error: err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return componentHealth{Status: "error", Error: err.Error()}
	}
	return componentHealth{Status: "ok"}
}

func (h *HealthHandler) checkRedis(ctx context.Context) componentHealth {
	if h.cache == nil {
		return componentHealth{Status: "disabled"}
	}
	if err := h.cache.Ping(ctx); err != nil {
		return componentHealth{Status: "error", Error: err.Error()}
	}
	return componentHealth{Status: "ok"}
}
