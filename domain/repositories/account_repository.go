package repositories

import (
	"context"

	"face-attendance/domain/models"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	List(ctx context.Context) ([]models.Account, error)

	// UpdateByUsername applies the given column set and returns the number of
	// rows affected so callers can distinguish "no such account".
	UpdateByUsername(ctx context.Context, username string, fields map[string]interface{}) (int64, error)

	Count(ctx context.Context) (int64, error)
	CountWithFaces(ctx context.Context) (int64, error)
	CountWithoutFaces(ctx context.Context) (int64, error)
}
