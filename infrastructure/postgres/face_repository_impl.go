package postgres

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"face-attendance/domain/models"
	"face-attendance/domain/repositories"
)

type FaceRepositoryImpl struct {
	db *gorm.DB
}

func NewFaceRepository(db *gorm.DB) repositories.FaceRepository {
	return &FaceRepositoryImpl{db: db}
}

func (r *FaceRepositoryImpl) Create(ctx context.Context, face *models.RegisteredFace) error {
	return r.db.WithContext(ctx).Create(face).Error
}

func (r *FaceRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.RegisteredFace, error) {
	var face models.RegisteredFace
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&face).Error
	if err != nil {
		return nil, err
	}
	return &face, nil
}

func (r *FaceRepositoryImpl) GetByAccount(ctx context.Context, accountID int64) ([]models.RegisteredFace, error) {
	var faces []models.RegisteredFace
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("id ASC").
		Find(&faces).Error
	if err != nil {
		return nil, err
	}
	return faces, nil
}

func (r *FaceRepositoryImpl) ListWithUsername(ctx context.Context) ([]repositories.FaceWithUsername, error) {
	var rows []repositories.FaceWithUsername
	err := r.db.WithContext(ctx).
		Table("tbl_register_faces").
		Select("tbl_register_faces.*, tbl_account.username AS username").
		Joins("LEFT JOIN tbl_account ON tbl_account.id = tbl_register_faces.account_id").
		Order("tbl_register_faces.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *FaceRepositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.RegisteredFace{}, id).Error
}

func (r *FaceRepositoryImpl) SearchSimilar(ctx context.Context, embedding pgvector.Vector, limit int, threshold float64) ([]repositories.FaceMatch, error) {
	type matchRow struct {
		repositories.FaceWithUsername
		Similarity float64 `gorm:"column:similarity"`
	}

	var rows []matchRow
	err := r.db.WithContext(ctx).
		Table("tbl_register_faces").
		Select("tbl_register_faces.*, tbl_account.username AS username, 1 - (tbl_register_faces.embedding <=> ?) AS similarity", embedding).
		Joins("LEFT JOIN tbl_account ON tbl_account.id = tbl_register_faces.account_id").
		Where("tbl_register_faces.embedding IS NOT NULL").
		Where("1 - (tbl_register_faces.embedding <=> ?) >= ?", embedding, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	matches := make([]repositories.FaceMatch, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, repositories.FaceMatch{
			Face:       row.FaceWithUsername,
			Similarity: row.Similarity,
		})
	}
	return matches, nil
}

func (r *FaceRepositoryImpl) ListImageURLs(ctx context.Context) ([]string, error) {
	var faces []models.RegisteredFace
	err := r.db.WithContext(ctx).
		Select("face_image", "face_image_process").
		Find(&faces).Error
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(faces)*2)
	for _, face := range faces {
		if face.FaceImage != "" {
			urls = append(urls, face.FaceImage)
		}
		if face.FaceImageProcess != "" {
			urls = append(urls, face.FaceImageProcess)
		}
	}
	return urls, nil
}
