package serviceimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"face-attendance/domain/models"
	"face-attendance/domain/repositories"
	"face-attendance/domain/services"
)

// In-memory fakes for the repository and collaborator interfaces. They keep
// the service tests free of a live database, detector process, and disk.

type fakeAccountRepo struct {
	accounts  map[int64]*models.Account
	nextID    int64
	withFaces int64
	createErr error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[int64]*models.Account{}, nextID: 1}
}

func (r *fakeAccountRepo) add(account *models.Account) *models.Account {
	if account.ID == 0 {
		account.ID = r.nextID
		r.nextID++
	}
	r.accounts[account.ID] = account
	return account
}

func (r *fakeAccountRepo) Create(_ context.Context, account *models.Account) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.accounts {
		if existing.Username == account.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	r.add(account)
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id int64) (*models.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return account, nil
}

func (r *fakeAccountRepo) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	for _, account := range r.accounts {
		if account.Username == username {
			return account, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAccountRepo) List(_ context.Context) ([]models.Account, error) {
	out := make([]models.Account, 0, len(r.accounts))
	for id := int64(0); id < r.nextID; id++ {
		if account, ok := r.accounts[id]; ok {
			out = append(out, *account)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) UpdateByUsername(_ context.Context, username string, fields map[string]interface{}) (int64, error) {
	for _, account := range r.accounts {
		if account.Username != username {
			continue
		}
		if v, ok := fields["role"]; ok {
			account.Role = models.Role(v.(string))
		}
		if v, ok := fields["password"]; ok {
			account.Password = v.(string)
		}
		if v, ok := fields["name"]; ok {
			account.Name = v.(string)
		}
		if v, ok := fields["email"]; ok {
			account.Email = v.(string)
		}
		return 1, nil
	}
	return 0, nil
}

func (r *fakeAccountRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.accounts)), nil
}

func (r *fakeAccountRepo) CountWithFaces(_ context.Context) (int64, error) {
	return r.withFaces, nil
}

func (r *fakeAccountRepo) CountWithoutFaces(_ context.Context) (int64, error) {
	return int64(len(r.accounts)) - r.withFaces, nil
}

type fakeFaceRepo struct {
	faces   map[int64]*models.RegisteredFace
	nextID  int64
	matches []repositories.FaceMatch
}

func newFakeFaceRepo() *fakeFaceRepo {
	return &fakeFaceRepo{faces: map[int64]*models.RegisteredFace{}, nextID: 1}
}

func (r *fakeFaceRepo) Create(_ context.Context, face *models.RegisteredFace) error {
	face.ID = r.nextID
	r.nextID++
	r.faces[face.ID] = face
	return nil
}

func (r *fakeFaceRepo) GetByID(_ context.Context, id int64) (*models.RegisteredFace, error) {
	face, ok := r.faces[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return face, nil
}

func (r *fakeFaceRepo) GetByAccount(_ context.Context, accountID int64) ([]models.RegisteredFace, error) {
	var out []models.RegisteredFace
	for id := int64(0); id < r.nextID; id++ {
		if face, ok := r.faces[id]; ok && face.AccountID == accountID {
			out = append(out, *face)
		}
	}
	return out, nil
}

func (r *fakeFaceRepo) ListWithUsername(_ context.Context) ([]repositories.FaceWithUsername, error) {
	var out []repositories.FaceWithUsername
	for id := int64(0); id < r.nextID; id++ {
		if face, ok := r.faces[id]; ok {
			out = append(out, repositories.FaceWithUsername{RegisteredFace: *face})
		}
	}
	return out, nil
}

func (r *fakeFaceRepo) Delete(_ context.Context, id int64) error {
	delete(r.faces, id)
	return nil
}

func (r *fakeFaceRepo) SearchSimilar(_ context.Context, _ pgvector.Vector, _ int, _ float64) ([]repositories.FaceMatch, error) {
	return r.matches, nil
}

func (r *fakeFaceRepo) ListImageURLs(_ context.Context) ([]string, error) {
	var urls []string
	for _, face := range r.faces {
		if face.FaceImage != "" {
			urls = append(urls, face.FaceImage)
		}
		if face.FaceImageProcess != "" {
			urls = append(urls, face.FaceImageProcess)
		}
	}
	return urls, nil
}

type fakeHistoryRepo struct {
	entries map[int64]*models.EntryHistory
	nextID  int64
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{entries: map[int64]*models.EntryHistory{}, nextID: 1}
}

func (r *fakeHistoryRepo) Create(_ context.Context, entry *models.EntryHistory) error {
	entry.ID = r.nextID
	r.nextID++
	if entry.EnterAt.IsZero() {
		entry.EnterAt = time.Now()
	}
	r.entries[entry.ID] = entry
	return nil
}

func (r *fakeHistoryRepo) GetByID(_ context.Context, id int64) (*models.EntryHistory, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return entry, nil
}

func (r *fakeHistoryRepo) List(_ context.Context) ([]models.EntryHistory, error) {
	var out []models.EntryHistory
	for id := int64(0); id < r.nextID; id++ {
		if entry, ok := r.entries[id]; ok {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (r *fakeHistoryRepo) ListWithName(ctx context.Context) ([]repositories.HistoryWithAccount, error) {
	entries, _ := r.List(ctx)
	out := make([]repositories.HistoryWithAccount, 0, len(entries))
	for _, entry := range entries {
		out = append(out, repositories.HistoryWithAccount{EntryHistory: entry})
	}
	return out, nil
}

func (r *fakeHistoryRepo) ListByAccount(ctx context.Context, accountID int64) ([]repositories.HistoryWithAccount, error) {
	entries, _ := r.List(ctx)
	var out []repositories.HistoryWithAccount
	for _, entry := range entries {
		if entry.AccountID == accountID {
			out = append(out, repositories.HistoryWithAccount{EntryHistory: entry})
		}
	}
	return out, nil
}

func (r *fakeHistoryRepo) Delete(_ context.Context, id int64) error {
	delete(r.entries, id)
	return nil
}

func (r *fakeHistoryRepo) CountBetween(_ context.Context, start, end time.Time) (int64, error) {
	var count int64
	for _, entry := range r.entries {
		if !entry.EnterAt.Before(start) && entry.EnterAt.Before(end) {
			count++
		}
	}
	return count, nil
}

func (r *fakeHistoryRepo) CountByAccountBetween(_ context.Context, accountID int64, start, end time.Time) (int64, error) {
	var count int64
	for _, entry := range r.entries {
		if entry.AccountID == accountID && !entry.EnterAt.Before(start) && entry.EnterAt.Before(end) {
			count++
		}
	}
	return count, nil
}

func (r *fakeHistoryRepo) ListImageURLs(_ context.Context) ([]string, error) {
	var urls []string
	for _, entry := range r.entries {
		if entry.FaceImage != "" {
			urls = append(urls, entry.FaceImage)
		}
	}
	return urls, nil
}

// fakeDetector returns a canned result or error.
type fakeDetector struct {
	result *services.DetectionResult
	err    error
}

func (d *fakeDetector) Detect(_ context.Context, imagePath string) (*services.DetectionResult, error) {
	if d.err != nil {
		return nil, d.err
	}
	result := *d.result
	if result.OriginalPath == "" {
		result.OriginalPath = imagePath
	}
	return &result, nil
}

// fakeStore keeps "files" in memory, keyed by URL.
type fakeStore struct {
	baseURL  string
	files    map[string][]byte
	modTimes map[string]time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		baseURL:  "http://test",
		files:    map[string][]byte{},
		modTimes: map[string]time.Time{},
	}
}

func (s *fakeStore) url(category, owner, filename string) string {
	return fmt.Sprintf("%s/%s/%s/%s", s.baseURL, category, owner, filename)
}

func (s *fakeStore) SaveBytes(category, owner, filename string, data []byte) (string, error) {
	url := s.url(category, owner, filename)
	s.files[url] = data
	s.modTimes[url] = time.Now()
	return url, nil
}

func (s *fakeStore) CopyFile(category, owner, filename, srcPath string) (string, error) {
	url := s.url(category, owner, filename)
	s.files[url] = []byte("copied from " + srcPath)
	s.modTimes[url] = time.Now()
	return url, nil
}

func (s *fakeStore) PathFromURL(rawURL string) (string, error) {
	return "/fake" + rawURL[len(s.baseURL):], nil
}

func (s *fakeStore) Remove(rawURL string) error {
	delete(s.files, rawURL)
	delete(s.modTimes, rawURL)
	return nil
}

func (s *fakeStore) RemovePath(path string) error {
	url := s.baseURL + path[len("/fake"):]
	delete(s.files, url)
	delete(s.modTimes, url)
	return nil
}

func (s *fakeStore) List(category string) ([]services.StoredFile, error) {
	prefix := s.baseURL + "/" + category + "/"
	var out []services.StoredFile
	for url := range s.files {
		if len(url) >= len(prefix) && url[:len(prefix)] == prefix {
			path, _ := s.PathFromURL(url)
			out = append(out, services.StoredFile{
				Path:    path,
				URL:     url,
				ModTime: s.modTimes[url],
			})
		}
	}
	return out, nil
}
