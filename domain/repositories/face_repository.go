package repositories

import (
	"context"

	"github.com/pgvector/pgvector-go"

	"face-attendance/domain/models"
)

// FaceWithUsername is a registered-face row joined with its owner's username
// for administrative listings. Username is empty when the account row is gone.
type FaceWithUsername struct {
	models.RegisteredFace
	Username string `json:"username"`
}

// FaceMatch is one similarity-search hit.
type FaceMatch struct {
	Face       FaceWithUsername
	Similarity float64
}

type FaceRepository interface {
	Create(ctx context.Context, face *models.RegisteredFace) error
	GetByID(ctx context.Context, id int64) (*models.RegisteredFace, error)
	GetByAccount(ctx context.Context, accountID int64) ([]models.RegisteredFace, error)
	ListWithUsername(ctx context.Context) ([]FaceWithUsername, error)
	Delete(ctx context.Context, id int64) error

	// SearchSimilar finds registered faces by cosine similarity against the
	// pgvector embedding column. Results are ordered most similar first.
	SearchSimilar(ctx context.Context, embedding pgvector.Vector, limit int, threshold float64) ([]FaceMatch, error)

	// ListImageURLs returns every stored image URL (original and processed),
	// used by the orphan-file sweep.
	ListImageURLs(ctx context.Context) ([]string, error)
}
