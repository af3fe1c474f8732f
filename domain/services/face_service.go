package services

import (
	"context"
	"errors"

	"face-attendance/domain/models"
	"face-attendance/domain/repositories"
)

// Detection errors surfaced to API clients with specific guidance instead of
// a generic failure.
var (
	ErrFaceNotProcessed = errors.New("face not processed correctly")
	ErrEmbeddingEmpty   = errors.New("embedding vector is empty; ensure the face is clearly visible and try again")
	ErrFaceNotFound     = errors.New("face registration not found")
	ErrNoFaceData       = errors.New("no face data found for the given account")
)

// DetectionResult is the parsed output of the external detector: the two crop
// files it wrote plus the embedding of each.
type DetectionResult struct {
	OriginalPath       string    `json:"original_path"`
	ProcessedPath      string    `json:"processed_path"`
	OriginalEmbedding  []float64 `json:"original_embedding"`
	ProcessedEmbedding []float64 `json:"processed_embedding"`
}

// FaceDetector is the external detector collaborator. The process blocks the
// calling request until it exits.
type FaceDetector interface {
	Detect(ctx context.Context, imagePath string) (*DetectionResult, error)
}

// RegisteredFaceData is a row with its stored embeddings decoded back into
// tagged vectors.
type RegisteredFaceData struct {
	ID                  int64                  `json:"id"`
	FaceImageURL        string                 `json:"face_image_url"`
	ImageVector         models.TaggedEmbedding `json:"image_vector"`
	FaceImageProcessURL string                 `json:"face_image_process_url"`
	ImageVectorProcess  models.TaggedEmbedding `json:"image_vector_process"`
}

// FaceAdminRow is the administrative listing joined with usernames. Vectors
// that fail to decode are left nil rather than failing the listing.
type FaceAdminRow struct {
	ID                  int64                   `json:"id"`
	AccountID           int64                   `json:"account_id"`
	Username            string                  `json:"username"`
	FaceImageURL        string                  `json:"face_image_url"`
	ImageVector         *models.TaggedEmbedding `json:"image_vector"`
	FaceImageProcessURL string                  `json:"face_image_process_url"`
	ImageVectorProcess  *models.TaggedEmbedding `json:"image_vector_process"`
}

// FaceRegistration is the payload returned after a successful enrollment.
type FaceRegistration struct {
	FaceImage          string                 `json:"face_image"`
	FaceImageProcess   string                 `json:"face_image_process"`
	AccountID          int64                  `json:"account_id"`
	ImageVector        models.TaggedEmbedding `json:"image_vector"`
	ImageVectorProcess models.TaggedEmbedding `json:"image_vector_process"`
}

// FaceStatistics field names are part of the API contract.
type FaceStatistics struct {
	RegisteredCount    int64 `json:"registeredCount"`
	NotRegisteredCount int64 `json:"notRegisteredCount"`
}

type FaceService interface {
	// Register runs the full enrollment workflow: decode, detect, persist the
	// two image variants, serialize tagged embeddings, insert the row.
	Register(ctx context.Context, accountID int64, base64Image string) (*FaceRegistration, error)

	// Detect runs only the decode + external-detection steps.
	Detect(ctx context.Context, base64Image string) (*DetectionResult, error)

	// Identify detects a face and searches registered faces by cosine
	// similarity, most similar first.
	Identify(ctx context.Context, base64Image string, limit int, threshold float64) ([]repositories.FaceMatch, error)

	GetByAccount(ctx context.Context, accountID int64) ([]RegisteredFaceData, error)
	ListAllWithUsername(ctx context.Context) ([]FaceAdminRow, error)
	Delete(ctx context.Context, id int64) error
	Statistics(ctx context.Context) (*FaceStatistics, error)
}
