package postgres

import (
	"context"

	"gorm.io/gorm"

	"face-attendance/domain/models"
	"face-attendance/domain/repositories"
)

type AccountRepositoryImpl struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) repositories.AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

func (r *AccountRepositoryImpl) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *AccountRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepositoryImpl) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepositoryImpl) List(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).Order("id ASC").Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *AccountRepositoryImpl) UpdateByUsername(ctx context.Context, username string, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("username = ?", username).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *AccountRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Count(&count).Error
	return count, err
}

func (r *AccountRepositoryImpl) CountWithFaces(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id IN (?)", r.db.Model(&models.RegisteredFace{}).Select("account_id")).
		Count(&count).Error
	return count, err
}

func (r *AccountRepositoryImpl) CountWithoutFaces(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id NOT IN (?)", r.db.Model(&models.RegisteredFace{}).Select("account_id")).
		Count(&count).Error
	return count, err
}
