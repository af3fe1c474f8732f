package services

import (
	"context"
	"errors"

	"face-attendance/domain/models"
)

var ErrNoFieldsToUpdate = errors.New("no fields to update")

// AccountSummary is the public listing shape (no ids, no contact details).
type AccountSummary struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// AccountStatistics field names are part of the API contract.
type AccountStatistics struct {
	TotalAccounts          int64 `json:"totalAccounts"`
	RegisteredFaceAccounts int64 `json:"registeredFaceAccounts"`
}

// UpdateAccountInput holds the optional fields of a partial update. Nil means
// "leave unchanged".
type UpdateAccountInput struct {
	Role     *models.Role
	Password *string
	Name     *string
	Email    *string
}

type AccountService interface {
	List(ctx context.Context) ([]AccountSummary, error)
	ListDetails(ctx context.Context) ([]models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)

	// Update applies a partial update. A supplied password is rehashed before
	// storage. Fails with ErrNoFieldsToUpdate when every field is nil and
	// ErrAccountNotFound when the update touches zero rows.
	Update(ctx context.Context, username string, input UpdateAccountInput) error

	Statistics(ctx context.Context) (*AccountStatistics, error)
}
