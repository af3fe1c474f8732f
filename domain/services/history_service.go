package services

import (
	"context"
	"errors"

	"face-attendance/domain/models"
	"face-attendance/domain/repositories"
)

var (
	ErrHistoryNotFound = errors.New("history record not found")
	ErrNoRecords       = errors.New("no history records found")
)

// CreatedEntry is the payload returned after a successful check-in.
type CreatedEntry struct {
	AccountID int64  `json:"account_id"`
	FaceImage string `json:"face_image"`
}

// EntryStatistics field names are part of the API contract.
type EntryStatistics struct {
	TotalEntries   int64 `json:"totalEntries"`
	TotalImporters int64 `json:"totalImporters"`
}

type HistoryService interface {
	// Create resolves the account, normalizes the snapshot to JPEG, stores it
	// under a per-username directory and inserts the row.
	Create(ctx context.Context, accountID int64, base64Image string) (*CreatedEntry, error)

	Delete(ctx context.Context, id int64) error

	// ListAll joins account display names; List returns the bare rows. Both
	// treat an empty result as ErrNoRecords.
	ListAll(ctx context.Context) ([]repositories.HistoryWithAccount, error)
	List(ctx context.Context) ([]models.EntryHistory, error)
	ListByAccount(ctx context.Context, accountID int64) ([]repositories.HistoryWithAccount, error)

	// Statistics counts entries within the current calendar day of the
	// configured zone, plus the importer-sentinel subset.
	Statistics(ctx context.Context) (*EntryStatistics, error)
}
