package serviceimpl

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"face-attendance/domain/models"
	"face-attendance/domain/repositories"
	"face-attendance/domain/services"
	"face-attendance/infrastructure/redis"
	"face-attendance/pkg/logger"
)

const (
	accountStatsCacheKey = "stats:accounts"
	statsCacheTTL        = 30 * time.Second
)

type AccountServiceImpl struct {
	accountRepo repositories.AccountRepository
	cache       *redis.RedisClient
}

// NewAccountService wires the account repository with an optional statistics
// cache; a nil cache disables caching.
func NewAccountService(accountRepo repositories.AccountRepository, cache *redis.RedisClient) services.AccountService {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		cache:       cache,
	}
}

func (s *AccountServiceImpl) List(ctx context.Context) ([]services.AccountSummary, error) {
	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]services.AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		summaries = append(summaries, services.AccountSummary{
			Username: account.Username,
			Role:     account.Role,
		})
	}
	return summaries, nil
}

func (s *AccountServiceImpl) ListDetails(ctx context.Context) ([]models.Account, error) {
	return s.accountRepo.List(ctx)
}

func (s *AccountServiceImpl) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	account, err := s.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *AccountServiceImpl) Update(ctx context.Context, username string, input services.UpdateAccountInput) error {
	fields := map[string]interface{}{}

	if input.Role != nil {
		fields["role"] = string(*input.Role)
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		fields["password"] = string(hash)
	}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Email != nil {
		fields["email"] = *input.Email
	}

	if len(fields) == 0 {
		return services.ErrNoFieldsToUpdate
	}

	affected, err := s.accountRepo.UpdateByUsername(ctx, username, fields)
	if err != nil {
		return err
	}
	if affected == 0 {
		return services.ErrAccountNotFound
	}

	s.invalidateStats(ctx)
	logger.API("account_updated", "Account updated", map[string]interface{}{"username": username, "fields": len(fields)})
	return nil
}

func (s *AccountServiceImpl) Statistics(ctx context.Context) (*services.AccountStatistics, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, accountStatsCacheKey); err == nil {
			var stats services.AccountStatistics
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	total, err := s.accountRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	withFaces, err := s.accountRepo.CountWithFaces(ctx)
	if err != nil {
		return nil, err
	}

	stats := &services.AccountStatistics{
		TotalAccounts:          total,
		RegisteredFaceAccounts: withFaces,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, accountStatsCacheKey, string(payload), statsCacheTTL); err != nil {
				logger.Warn(logger.CategoryAPI, "stats_cache_set", "Failed to cache account statistics", map[string]interface{}{"error": err.Error()})
			}
		}
	}
	return stats, nil
}

func (s *AccountServiceImpl) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, accountStatsCacheKey, faceStatsCacheKey); err != nil {
		logger.Warn(logger.CategoryAPI, "stats_cache_invalidate", "Failed to invalidate statistics cache", map[string]interface{}{"error": err.Error()})
	}
}
