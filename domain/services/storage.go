package services

import "time"

// Storage categories, each mounted as a static URL prefix.
const (
	CategoryUploads   = "uploads"   // original face images, per account id
	CategoryProcess   = "process"   // processed face crops, per account id
	CategoryHistories = "histories" // check-in snapshots, per username
)

// StoredFile is one file on disk together with its public URL.
type StoredFile struct {
	Path    string
	URL     string
	ModTime time.Time
}

// ImageStore persists image bytes under category/owner directories and maps
// between public URLs and on-disk paths. File lifecycle is imperative, not
// transactional; callers order file and row operations accordingly.
type ImageStore interface {
	SaveBytes(category, owner, filename string, data []byte) (string, error)
	CopyFile(category, owner, filename, srcPath string) (string, error)
	PathFromURL(rawURL string) (string, error)
	Remove(rawURL string) error
	List(category string) ([]StoredFile, error)
	RemovePath(path string) error
}
