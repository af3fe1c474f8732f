package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"face-attendance/domain/models"
	"face-attendance/domain/repositories"
)

type HistoryRepositoryImpl struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) repositories.HistoryRepository {
	return &HistoryRepositoryImpl{db: db}
}

func (r *HistoryRepositoryImpl) Create(ctx context.Context, entry *models.EntryHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *HistoryRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.EntryHistory, error) {
	var entry models.EntryHistory
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *HistoryRepositoryImpl) List(ctx context.Context) ([]models.EntryHistory, error) {
	var entries []models.EntryHistory
	err := r.db.WithContext(ctx).Order("enter_at DESC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *HistoryRepositoryImpl) ListWithName(ctx context.Context) ([]repositories.HistoryWithAccount, error) {
	var rows []repositories.HistoryWithAccount
	err := r.db.WithContext(ctx).
		Table("tbl_enter_history").
		Select("tbl_enter_history.*, tbl_account.name AS name, tbl_account.email AS email").
		Joins("LEFT JOIN tbl_account ON tbl_account.id = tbl_enter_history.account_id").
		Order("tbl_enter_history.enter_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *HistoryRepositoryImpl) ListByAccount(ctx context.Context, accountID int64) ([]repositories.HistoryWithAccount, error) {
	var rows []repositories.HistoryWithAccount
	err := r.db.WithContext(ctx).
		Table("tbl_enter_history").
		Select("tbl_enter_history.*, tbl_account.name AS name, tbl_account.email AS email").
		Joins("LEFT JOIN tbl_account ON tbl_account.id = tbl_enter_history.account_id").
		Where("tbl_enter_history.account_id = ?", accountID).
		Order("tbl_enter_history.enter_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *HistoryRepositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.EntryHistory{}, id).Error
}

func (r *HistoryRepositoryImpl) CountBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EntryHistory{}).
		Where("enter_at >= ? AND enter_at < ?", start, end).
		Count(&count).Error
	return count, err
}

func (r *HistoryRepositoryImpl) CountByAccountBetween(ctx context.Context, accountID int64, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EntryHistory{}).
		Where("account_id = ? AND enter_at >= ? AND enter_at < ?", accountID, start, end).
		Count(&count).Error
	return count, err
}

func (r *HistoryRepositoryImpl) ListImageURLs(ctx context.Context) ([]string, error) {
	var entries []models.EntryHistory
	err := r.db.WithContext(ctx).Select("face_image").Find(&entries).Error
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.FaceImage != "" {
			urls = append(urls, entry.FaceImage)
		}
	}
	return urls, nil
}
