package serviceimpl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"face-attendance/domain/models"
	"face-attendance/domain/repositories"
	"face-attendance/domain/services"
	"face-attendance/infrastructure/redis"
	"face-attendance/pkg/logger"
	"face-attendance/pkg/utils"
)

const faceStatsCacheKey = "stats:faces"

// embeddingDims is the vector width produced by the dlib face-recognition
// model; other widths are stored but excluded from similarity search.
const embeddingDims = 128

type FaceServiceImpl struct {
	faceRepo    repositories.FaceRepository
	accountRepo repositories.AccountRepository
	detector    services.FaceDetector
	store       services.ImageStore
	cache       *redis.RedisClient
}

func NewFaceService(
	faceRepo repositories.FaceRepository,
	accountRepo repositories.AccountRepository,
	detector services.FaceDetector,
	store services.ImageStore,
	cache *redis.RedisClient,
) services.FaceService {
	return &FaceServiceImpl{
		faceRepo:    faceRepo,
		accountRepo: accountRepo,
		detector:    detector,
		store:       store,
		cache:       cache,
	}
}

func (s *FaceServiceImpl) Register(ctx context.Context, accountID int64, base64Image string) (*services.FaceRegistration, error) {
	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrAccountNotFound
		}
		return nil, err
	}

	result, cleanup, err := s.detectFromBase64(ctx, base64Image)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		return nil, err
	}

	owner := strconv.FormatInt(accountID, 10)
	filename := uuid.NewString() + ".jpg"

	// Both detector outputs become the stored images: the expanded crop as
	// the original, the filtered crop as the processed variant. The embedding
	// was computed from the crop, so that is the image kept. Scratch files go
	// with the deferred cleanup once copied.
	originalURL, err := s.store.CopyFile(services.CategoryUploads, owner, filename, result.OriginalPath)
	if err != nil {
		return nil, err
	}
	processedURL, err := s.store.CopyFile(services.CategoryProcess, owner, "processed_"+filename, result.ProcessedPath)
	if err != nil {
		s.removeStored(originalURL)
		return nil, err
	}

	originalTagged := models.TaggedEmbedding{AccountID: accountID, Vector: result.OriginalEmbedding}
	processedTagged := models.TaggedEmbedding{AccountID: accountID, Vector: result.ProcessedEmbedding}

	originalJSON, err := json.Marshal(originalTagged)
	if err != nil {
		return nil, err
	}
	processedJSON, err := json.Marshal(processedTagged)
	if err != nil {
		return nil, err
	}

	face := &models.RegisteredFace{
		AccountID:          accountID,
		FaceImage:          originalURL,
		FaceImageProcess:   processedURL,
		ImageVector:        originalJSON,
		ImageVectorProcess: processedJSON,
	}
	if len(result.OriginalEmbedding) == embeddingDims {
		vec := pgvector.NewVector(toFloat32(result.OriginalEmbedding))
		face.Embedding = &vec
	}

	if err := s.faceRepo.Create(ctx, face); err != nil {
		s.removeStored(originalURL)
		s.removeStored(processedURL)
		return nil, err
	}

	s.invalidateStats(ctx)
	logger.Face("register_success", "Face registered", map[string]interface{}{
		"account_id": accountID,
		"face_id":    face.ID,
	})

	return &services.FaceRegistration{
		FaceImage:          originalURL,
		FaceImageProcess:   processedURL,
		AccountID:          accountID,
		ImageVector:        originalTagged,
		ImageVectorProcess: processedTagged,
	}, nil
}

func (s *FaceServiceImpl) Detect(ctx context.Context, base64Image string) (*services.DetectionResult, error) {
	result, cleanup, err := s.detectFromBase64(ctx, base64Image)
	if cleanup != nil {
		defer cleanup()
	}
	return result, err
}

func (s *FaceServiceImpl) Identify(ctx context.Context, base64Image string, limit int, threshold float64) ([]repositories.FaceMatch, error) {
	result, cleanup, err := s.detectFromBase64(ctx, base64Image)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		return nil, err
	}
	if len(result.OriginalEmbedding) != embeddingDims {
		return nil, services.ErrEmbeddingEmpty
	}

	embedding := pgvector.NewVector(toFloat32(result.OriginalEmbedding))
	return s.faceRepo.SearchSimilar(ctx, embedding, limit, threshold)
}

// detectFromBase64 writes the payload to a scratch file and runs the detector
// on it. The returned cleanup removes the scratch input and both detector
// output files.
func (s *FaceServiceImpl) detectFromBase64(ctx context.Context, base64Image string) (*services.DetectionResult, func(), error) {
	data, err := utils.DecodeBase64Image(base64Image)
	if err != nil {
		return nil, nil, err
	}

	tmp, err := os.CreateTemp("", "detect-*.jpg")
	if err != nil {
		return nil, nil, err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, nil, err
	}
	tmp.Close()

	result, err := s.detector.Detect(ctx, tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return nil, nil, fmt.Errorf("%w: %v", services.ErrFaceNotProcessed, err)
	}

	cleanup := func() {
		os.Remove(tmpPath)
		if result.OriginalPath != "" && result.OriginalPath != tmpPath {
			os.Remove(result.OriginalPath)
		}
		if result.ProcessedPath != "" {
			os.Remove(result.ProcessedPath)
		}
	}

	if len(result.OriginalEmbedding) == 0 || len(result.ProcessedEmbedding) == 0 {
		return nil, cleanup, services.ErrEmbeddingEmpty
	}
	return result, cleanup, nil
}

func (s *FaceServiceImpl) GetByAccount(ctx context.Context, accountID int64) ([]services.RegisteredFaceData, error) {
	faces, err := s.faceRepo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(faces) == 0 {
		return nil, services.ErrNoFaceData
	}

	rows := make([]services.RegisteredFaceData, 0, len(faces))
	for _, face := range faces {
		var original, processed models.TaggedEmbedding
		if err := json.Unmarshal(face.ImageVector, &original); err != nil {
			logger.FaceError("decode_vector", "Skipping face with undecodable vector", err, map[string]interface{}{"face_id": face.ID})
			continue
		}
		if err := json.Unmarshal(face.ImageVectorProcess, &processed); err != nil {
			logger.FaceError("decode_vector", "Skipping face with undecodable processed vector", err, map[string]interface{}{"face_id": face.ID})
			continue
		}
		rows = append(rows, services.RegisteredFaceData{
			ID:                  face.ID,
			FaceImageURL:        face.FaceImage,
			ImageVector:         original,
			FaceImageProcessURL: face.FaceImageProcess,
			ImageVectorProcess:  processed,
		})
	}
	if len(rows) == 0 {
		return nil, services.ErrNoFaceData
	}
	return rows, nil
}

func (s *FaceServiceImpl) ListAllWithUsername(ctx context.Context) ([]services.FaceAdminRow, error) {
	faces, err := s.faceRepo.ListWithUsername(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]services.FaceAdminRow, 0, len(faces))
	for _, face := range faces {
		row := services.FaceAdminRow{
			ID:                  face.ID,
			AccountID:           face.AccountID,
			Username:            face.Username,
			FaceImageURL:        face.FaceImage,
			FaceImageProcessURL: face.FaceImageProcess,
		}
		row.ImageVector = decodeTagged(face.ImageVector, face.ID)
		row.ImageVectorProcess = decodeTagged(face.ImageVectorProcess, face.ID)
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *FaceServiceImpl) Delete(ctx context.Context, id int64) error {
	face, err := s.faceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrFaceNotFound
		}
		return err
	}

	if err := s.faceRepo.Delete(ctx, id); err != nil {
		return err
	}

	// File removal is best effort; the orphan sweep picks up leftovers.
	s.removeStored(face.FaceImage)
	s.removeStored(face.FaceImageProcess)

	s.invalidateStats(ctx)
	logger.Face("delete_success", "Face registration deleted", map[string]interface{}{"face_id": id})
	return nil
}

func (s *FaceServiceImpl) Statistics(ctx context.Context) (*services.FaceStatistics, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, faceStatsCacheKey); err == nil {
			var stats services.FaceStatistics
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	registered, err := s.accountRepo.CountWithFaces(ctx)
	if err != nil {
		return nil, err
	}
	notRegistered, err := s.accountRepo.CountWithoutFaces(ctx)
	if err != nil {
		return nil, err
	}

	stats := &services.FaceStatistics{
		RegisteredCount:    registered,
		NotRegisteredCount: notRegistered,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, faceStatsCacheKey, string(payload), statsCacheTTL); err != nil {
				logger.Warn(logger.CategoryFace, "stats_cache_set", "Failed to cache face statistics", map[string]interface{}{"error": err.Error()})
			}
		}
	}
	return stats, nil
}

func (s *FaceServiceImpl) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, faceStatsCacheKey, accountStatsCacheKey); err != nil {
		logger.Warn(logger.CategoryFace, "stats_cache_invalidate", "Failed to invalidate statistics cache", map[string]interface{}{"error": err.Error()})
	}
}

func (s *FaceServiceImpl) removeStored(url string) {
	if url == "" {
		return
	}
	if err := s.store.Remove(url); err != nil {
		logger.Warn(logger.CategoryStorage, "remove_stored", "Failed to remove stored image", map[string]interface{}{"url": url, "error": err.Error()})
	}
}

func decodeTagged(raw json.RawMessage, faceID int64) *models.TaggedEmbedding {
	if len(raw) == 0 {
		return nil
	}
	var tagged models.TaggedEmbedding
	if err := json.Unmarshal(raw, &tagged); err != nil {
		logger.FaceError("decode_vector", "Leaving undecodable vector empty in listing", err, map[string]interface{}{"face_id": faceID})
		return nil
	}
	return &tagged
}

func toFloat32(values []float64) []float32 {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out
}
