package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"face-attendance/domain/services"
	"face-attendance/pkg/logger"
	"face-attendance/pkg/utils"
)

type FaceHandler struct {
	faceService services.FaceService
}

func NewFaceHandler(faceService services.FaceService) *FaceHandler {
	return &FaceHandler{
		faceService: faceService,
	}
}

type RegisterFaceRequest struct {
	AccountID int64  `json:"account_id" validate:"required"`
	Image     string `json:"image" validate:"required"`
}

type DetectFaceRequest struct {
	Image string `json:"image" validate:"required"`
}

type IdentifyFaceRequest struct {
	Image     string  `json:"image" validate:"required"`
	Limit     int     `json:"limit" validate:"omitempty,min=1,max=50"`
	Threshold float64 `json:"threshold" validate:"omitempty,min=0,max=1"`
}

type FaceMatchResponse struct {
	FaceID     int64   `json:"face_id"`
	AccountID  int64   `json:"account_id"`
	Username   string  `json:"username"`
	FaceImage  string  `json:"face_image"`
	Similarity float64 `json:"similarity"`
}

// Register runs the full enrollment workflow for an account
func (h *FaceHandler) Register(c *fiber.Ctx) error {
	var req RegisterFaceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := validate.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Account id and image are required", err)
	}

	registration, err := h.faceService.Register(c.Context(), req.AccountID, req.Image)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			return utils.NotFoundResponse(c, "Account not found")
		case errors.Is(err, utils.ErrEmptyImage), errors.Is(err, utils.ErrInvalidImage):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid image payload", err)
		case errors.Is(err, services.ErrEmbeddingEmpty):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, services.ErrEmbeddingEmpty.Error(), err)
		case errors.Is(err, services.ErrFaceNotProcessed):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Face not processed correctly", err)
		default:
			logger.FaceError("register_failed", "Face registration failed", err, map[string]interface{}{"account_id": req.AccountID})
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Face registration failed", err)
		}
	}

	return utils.CreatedResponse(c, "Face registered", registration)
}

// Detect runs only the detection step and returns the raw result
func (h *FaceHandler) Detect(c *fiber.Ctx) error {
	var req DetectFaceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := validate.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Image is required", err)
	}

	result, err := h.faceService.Detect(c.Context(), req.Image)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrEmptyImage), errors.Is(err, utils.ErrInvalidImage):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid image payload", err)
		case errors.Is(err, services.ErrEmbeddingEmpty):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, services.ErrEmbeddingEmpty.Error(), err)
		case errors.Is(err, services.ErrFaceNotProcessed):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Face not processed correctly", err)
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Face detection failed", err)
		}
	}

	return utils.SuccessResponse(c, "Face detected", result)
}

// Identify detects a face and returns the closest registered matches
func (h *FaceHandler) Identify(c *fiber.Ctx) error {
	var req IdentifyFaceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := validate.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Image is required", err)
	}
	if req.Limit == 0 {
		req.Limit = 5
	}
	if req.Threshold == 0 {
		req.Threshold = 0.6
	}

	matches, err := h.faceService.Identify(c.Context(), req.Image, req.Limit, req.Threshold)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrEmptyImage), errors.Is(err, utils.ErrInvalidImage):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid image payload", err)
		case errors.Is(err, services.ErrEmbeddingEmpty):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, services.ErrEmbeddingEmpty.Error(), err)
		case errors.Is(err, services.ErrFaceNotProcessed):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Face not processed correctly", err)
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Face identification failed", err)
		}
	}

	results := make([]FaceMatchResponse, 0, len(matches))
	for _, match := range matches {
		results = append(results, FaceMatchResponse{
			FaceID:     match.Face.ID,
			AccountID:  match.Face.AccountID,
			Username:   match.Face.Username,
			FaceImage:  match.Face.FaceImage,
			Similarity: match.Similarity,
		})
	}
	return utils.SuccessResponse(c, "Identification complete", results)
}

// GetByAccount returns the decoded registrations of one account
func (h *FaceHandler) GetByAccount(c *fiber.Ctx) error {
	accountID, err := strconv.ParseInt(c.Params("accountId"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid account id", err)
	}

	rows, err := h.faceService.GetByAccount(c.Context(), accountID)
	if err != nil {
		if errors.Is(err, services.ErrNoFaceData) {
			return utils.NotFoundResponse(c, "No face data found for the given account")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get face data", err)
	}
	return utils.SuccessResponse(c, "Face data retrieved", rows)
}

// ListAllWithUsername returns every registration joined with its owner's
// username
func (h *FaceHandler) ListAllWithUsername(c *fiber.Ctx) error {
	rows, err := h.faceService.ListAllWithUsername(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list face registrations", err)
	}
	return utils.SuccessResponse(c, "Face registrations retrieved", rows)
}

// Delete removes a registration row and its stored images
func (h *FaceHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid face id", err)
	}

	if err := h.faceService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrFaceNotFound) {
			return utils.NotFoundResponse(c, "Face registration not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete face registration", err)
	}
	return utils.SuccessResponse(c, "Face registration deleted", fiber.Map{"id": id})
}

// Statistics returns the bare counters object consumed by the dashboard
func (h *FaceHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.faceService.Statistics(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to compute statistics", err)
	}
	return c.JSON(stats)
}
