package serviceimpl

import (
	"context"
	"time"

	"face-attendance/domain/repositories"
	"face-attendance/domain/services"
	"face-attendance/pkg/logger"
)

// orphanGracePeriod protects files whose database row has not been inserted
// yet: enrollment writes the file first.
const orphanGracePeriod = time.Hour

type CleanupServiceImpl struct {
	faceRepo    repositories.FaceRepository
	historyRepo repositories.HistoryRepository
	store       services.ImageStore
}

func NewCleanupService(
	faceRepo repositories.FaceRepository,
	historyRepo repositories.HistoryRepository,
	store services.ImageStore,
) services.CleanupService {
	return &CleanupServiceImpl{
		faceRepo:    faceRepo,
		historyRepo: historyRepo,
		store:       store,
	}
}

func (s *CleanupServiceImpl) SweepOrphans(ctx context.Context) (int, error) {
	referenced := make(map[string]struct{})

	faceURLs, err := s.faceRepo.ListImageURLs(ctx)
	if err != nil {
		return 0, err
	}
	for _, url := range faceURLs {
		referenced[url] = struct{}{}
	}

	historyURLs, err := s.historyRepo.ListImageURLs(ctx)
	if err != nil {
		return 0, err
	}
	for _, url := range historyURLs {
		referenced[url] = struct{}{}
	}

	cutoff := time.Now().Add(-orphanGracePeriod)
	removed := 0

	for _, category := range []string{services.CategoryUploads, services.CategoryProcess, services.CategoryHistories} {
		files, err := s.store.List(category)
		if err != nil {
			return removed, err
		}

		for _, file := range files {
			if _, ok := referenced[file.URL]; ok {
				continue
			}
			if file.ModTime.After(cutoff) {
				continue
			}
			if err := s.store.RemovePath(file.Path); err != nil {
				logger.SchedulerError("orphan_remove", "Failed to remove orphan file", err, map[string]interface{}{"path": file.Path})
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		logger.Scheduler("orphan_sweep", "Removed orphan image files", map[string]interface{}{"removed": removed})
	}
	return removed, nil
}
