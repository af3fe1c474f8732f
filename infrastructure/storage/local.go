package storage

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"face-attendance/domain/services"
	"face-attendance/pkg/logger"
)

var (
	ErrBadImageURL   = errors.New("image URL does not map to a stored file")
	ErrUnsafeSegment = errors.New("unsafe path segment")
)

// LocalStore keeps images on the local filesystem under
// <baseDir>/<category>/<owner>/<filename> and serves them at
// <baseURL>/<category>/<owner>/<filename>.
type LocalStore struct {
	baseDir string
	baseURL string
}

func NewLocalStore(baseDir, baseURL string) (services.ImageStore, error) {
	for _, category := range []string{services.CategoryUploads, services.CategoryProcess, services.CategoryHistories} {
		if err := os.MkdirAll(filepath.Join(baseDir, category), 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	return &LocalStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalStore) SaveBytes(category, owner, filename string, data []byte) (string, error) {
	path, err := s.diskPath(category, owner, filename)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create owner directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	logger.Storage("save", "Stored image", map[string]interface{}{
		"category": category,
		"owner":    owner,
		"filename": filename,
		"bytes":    len(data),
	})
	return s.publicURL(category, owner, filename), nil
}

func (s *LocalStore) CopyFile(category, owner, filename, srcPath string) (string, error) {
	path, err := s.diskPath(category, owner, filename)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create owner directory: %w", err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open source image: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create image: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to copy image: %w", err)
	}

	logger.Storage("copy", "Copied image into store", map[string]interface{}{
		"category": category,
		"owner":    owner,
		"filename": filename,
		"source":   srcPath,
	})
	return s.publicURL(category, owner, filename), nil
}

// PathFromURL maps a public image URL back to its on-disk path. Only the
// trailing category/owner/filename segments matter, so URLs stored under an
// older base URL still resolve.
func (s *LocalStore) PathFromURL(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadImageURL, err)
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) < 3 {
		return "", ErrBadImageURL
	}
	category, owner, filename := segments[len(segments)-3], segments[len(segments)-2], segments[len(segments)-1]

	switch category {
	case services.CategoryUploads, services.CategoryProcess, services.CategoryHistories:
	default:
		return "", ErrBadImageURL
	}

	return s.diskPath(category, owner, filename)
}

func (s *LocalStore) Remove(rawURL string) error {
	path, err := s.PathFromURL(rawURL)
	if err != nil {
		return err
	}
	return s.RemovePath(path)
}

func (s *LocalStore) RemovePath(path string) error {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to remove image: %w", err)
	}
	logger.Storage("remove", "Removed image", map[string]interface{}{"path": path})
	return nil
}

func (s *LocalStore) List(category string) ([]services.StoredFile, error) {
	root := filepath.Join(s.baseDir, category)

	var files []services.StoredFile
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) != 2 {
			// Stray file outside the owner layout; skip it.
			return nil
		}

		files = append(files, services.StoredFile{
			Path:    path,
			URL:     s.publicURL(category, parts[0], parts[1]),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (s *LocalStore) publicURL(category, owner, filename string) string {
	return fmt.Sprintf("%s/%s/%s/%s", s.baseURL, category, owner, filename)
}

func (s *LocalStore) diskPath(category, owner, filename string) (string, error) {
	for _, segment := range []string{category, owner, filename} {
		if segment == "" || segment == "." || segment == ".." ||
			strings.ContainsAny(segment, `/\`) {
			return "", fmt.Errorf("%w: %q", ErrUnsafeSegment, segment)
		}
	}
	return filepath.Join(s.baseDir, category, owner, filename), nil
}
