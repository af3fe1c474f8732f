package serviceimpl

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"face-attendance/domain/models"
	"face-attendance/domain/repositories"
	"face-attendance/domain/services"
	"face-attendance/infrastructure/redis"
	"face-attendance/pkg/logger"
	"face-attendance/pkg/utils"
)

const entryStatsCacheKey = "stats:entries"

type HistoryServiceImpl struct {
	historyRepo repositories.HistoryRepository
	accountRepo repositories.AccountRepository
	store       services.ImageStore
	cache       *redis.RedisClient
	location    *time.Location
}

// NewHistoryService wires the entry-history repository. The timezone names
// the calendar-day zone used for daily statistics; an unknown zone falls back
// to UTC.
func NewHistoryService(
	historyRepo repositories.HistoryRepository,
	accountRepo repositories.AccountRepository,
	store services.ImageStore,
	cache *redis.RedisClient,
	timezone string,
) services.HistoryService {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warn(logger.CategoryHistory, "timezone_load", "Unknown statistics timezone, using UTC", map[string]interface{}{"timezone": timezone})
		location = time.UTC
	}
	return &HistoryServiceImpl{
		historyRepo: historyRepo,
		accountRepo: accountRepo,
		store:       store,
		cache:       cache,
		location:    location,
	}
}

func (s *HistoryServiceImpl) Create(ctx context.Context, accountID int64, base64Image string) (*services.CreatedEntry, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrAccountNotFound
		}
		return nil, err
	}

	data, err := utils.DecodeBase64Image(base64Image)
	if err != nil {
		return nil, err
	}
	snapshot, err := utils.NormalizeJPEG(data)
	if err != nil {
		return nil, err
	}

	filename := uuid.NewString() + ".jpg"
	url, err := s.store.SaveBytes(services.CategoryHistories, account.Username, filename, snapshot)
	if err != nil {
		return nil, err
	}

	entry := &models.EntryHistory{
		AccountID: accountID,
		FaceImage: url,
	}
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		if removeErr := s.store.Remove(url); removeErr != nil {
			logger.Warn(logger.CategoryStorage, "rollback_snapshot", "Failed to remove snapshot after insert failure", map[string]interface{}{"url": url, "error": removeErr.Error()})
		}
		return nil, err
	}

	s.invalidateStats(ctx)
	logger.History("entry_created", "Entry recorded", map[string]interface{}{
		"account_id": accountID,
		"username":   account.Username,
	})

	return &services.CreatedEntry{
		AccountID: accountID,
		FaceImage: url,
	}, nil
}

func (s *HistoryServiceImpl) Delete(ctx context.Context, id int64) error {
	entry, err := s.historyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrHistoryNotFound
		}
		return err
	}

	if err := s.historyRepo.Delete(ctx, id); err != nil {
		return err
	}

	// Snapshot removal is best effort; the orphan sweep picks up leftovers.
	if entry.FaceImage != "" {
		if err := s.store.Remove(entry.FaceImage); err != nil {
			logger.Warn(logger.CategoryStorage, "remove_snapshot", "Failed to remove snapshot", map[string]interface{}{"url": entry.FaceImage, "error": err.Error()})
		}
	}

	s.invalidateStats(ctx)
	logger.History("entry_deleted", "Entry deleted", map[string]interface{}{"entry_id": id})
	return nil
}

func (s *HistoryServiceImpl) ListAll(ctx context.Context) ([]repositories.HistoryWithAccount, error) {
	rows, err := s.historyRepo.ListWithName(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, services.ErrNoRecords
	}
	return rows, nil
}

func (s *HistoryServiceImpl) List(ctx context.Context) ([]models.EntryHistory, error) {
	rows, err := s.historyRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, services.ErrNoRecords
	}
	return rows, nil
}

func (s *HistoryServiceImpl) ListByAccount(ctx context.Context, accountID int64) ([]repositories.HistoryWithAccount, error) {
	rows, err := s.historyRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, services.ErrNoRecords
	}
	return rows, nil
}

func (s *HistoryServiceImpl) Statistics(ctx context.Context) (*services.EntryStatistics, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, entryStatsCacheKey); err == nil {
			var stats services.EntryStatistics
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	now := time.Now().In(s.location)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	end := start.Add(24 * time.Hour)

	total, err := s.historyRepo.CountBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	importers, err := s.historyRepo.CountByAccountBetween(ctx, models.ImporterAccountID, start, end)
	if err != nil {
		return nil, err
	}

	stats := &services.EntryStatistics{
		TotalEntries:   total,
		TotalImporters: importers,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, entryStatsCacheKey, string(payload), statsCacheTTL); err != nil {
				logger.Warn(logger.CategoryHistory, "stats_cache_set", "Failed to cache entry statistics", map[string]interface{}{"error": err.Error()})
			}
		}
	}
	return stats, nil
}

func (s *HistoryServiceImpl) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, entryStatsCacheKey); err != nil {
		logger.Warn(logger.CategoryHistory, "stats_cache_invalidate", "Failed to invalidate entry statistics cache", map[string]interface{}{"error": err.Error()})
	}
}
