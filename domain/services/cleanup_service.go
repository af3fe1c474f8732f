package services

import "context"

// CleanupService reconciles the filesystem against the store: image files no
// row references anymore are removed after a grace period. Orphans appear when
// a delete's file-removal step fails after the row is gone, or when a crash
// lands between a file write and the row insert.
type CleanupService interface {
	SweepOrphans(ctx context.Context) (removed int, err error)
}
