package repositories

import (
	"context"
	"time"

	"face-attendance/domain/models"
)

// HistoryWithAccount is an entry-history row joined with account details.
type HistoryWithAccount struct {
	models.EntryHistory
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type HistoryRepository interface {
	Create(ctx context.Context, entry *models.EntryHistory) error
	GetByID(ctx context.Context, id int64) (*models.EntryHistory, error)
	List(ctx context.Context) ([]models.EntryHistory, error)
	ListWithName(ctx context.Context) ([]HistoryWithAccount, error)
	ListByAccount(ctx context.Context, accountID int64) ([]HistoryWithAccount, error)
	Delete(ctx context.Context, id int64) error

	CountBetween(ctx context.Context, start, end time.Time) (int64, error)
	CountByAccountBetween(ctx context.Context, accountID int64, start, end time.Time) (int64, error)

	// ListImageURLs returns every stored snapshot URL, used by the orphan sweep.
	ListImageURLs(ctx context.Context) ([]string, error)
}
