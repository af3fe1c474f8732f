package serviceimpl

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/jpeg"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"face-attendance/domain/models"
	"face-attendance/domain/services"
	"face-attendance/pkg/utils"
)

func snapshotBase64(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newHistoryTestFixture() (*fakeHistoryRepo, *fakeAccountRepo, *fakeStore) {
	accountRepo := newFakeAccountRepo()
	accountRepo.add(&models.Account{Username: "alice"})
	return newFakeHistoryRepo(), accountRepo, newFakeStore()
}

func TestHistoryCreate(t *testing.T) {
	historyRepo, accountRepo, store := newHistoryTestFixture()
	svc := NewHistoryService(historyRepo, accountRepo, store, nil, "UTC")

	entry, err := svc.Create(context.Background(), 1, snapshotBase64(t))
	require.NoError(t, err)

	assert.Equal(t, int64(1), entry.AccountID)
	// Snapshots live under the username, not the numeric id.
	assert.Contains(t, entry.FaceImage, "/histories/alice/")
	assert.Contains(t, store.files, entry.FaceImage)
	require.Len(t, historyRepo.entries, 1)
	assert.Equal(t, entry.FaceImage, historyRepo.entries[1].FaceImage)
}

func TestHistoryCreateUnknownAccount(t *testing.T) {
	historyRepo, accountRepo, store := newHistoryTestFixture()
	svc := NewHistoryService(historyRepo, accountRepo, store, nil, "UTC")

	_, err := svc.Create(context.Background(), 99, snapshotBase64(t))
	assert.ErrorIs(t, err, services.ErrAccountNotFound)
	assert.Empty(t, store.files)
}

func TestHistoryCreateRejectsNonImage(t *testing.T) {
	historyRepo, accountRepo, store := newHistoryTestFixture()
	svc := NewHistoryService(historyRepo, accountRepo, store, nil, "UTC")

	payload := base64.StdEncoding.EncodeToString([]byte("not an image"))
	_, err := svc.Create(context.Background(), 1, payload)
	assert.ErrorIs(t, err, utils.ErrInvalidImage)
	assert.Empty(t, historyRepo.entries)
}

func TestHistoryCreateRejectsMalformedBase64(t *testing.T) {
	historyRepo, accountRepo, store := newHistoryTestFixture()
	svc := NewHistoryService(historyRepo, accountRepo, store, nil, "UTC")

	_, err := svc.Create(context.Background(), 1, "%%%garbage%%%")
	assert.ErrorIs(t, err, utils.ErrInvalidImage)
	assert.Empty(t, historyRepo.entries)
	assert.Empty(t, store.files)
}

func TestHistoryListEmpty(t *testing.T) {
	historyRepo, accountRepo, store := newHistoryTestFixture()
	svc := NewHistoryService(historyRepo, accountRepo, store, nil, "UTC")
	ctx := context.Background()

	_, err := svc.List(ctx)
	assert.ErrorIs(t, err, services.ErrNoRecords)

	_, err = svc.ListAll(ctx)
	assert.ErrorIs(t, err, services.ErrNoRecords)

	_, err = svc.ListByAccount(ctx, 1)
	assert.ErrorIs(t, err, services.ErrNoRecords)
}

func TestHistoryDeleteNotFound(t *testing.T) {
	historyRepo, accountRepo, store := newHistoryTestFixture()
	svc := NewHistoryService(historyRepo, accountRepo, store, nil, "UTC")

	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, services.ErrHistoryNotFound)
}

func TestHistoryDeleteRemovesSnapshot(t *testing.T) {
	historyRepo, accountRepo, store := newHistoryTestFixture()
	svc := NewHistoryService(historyRepo, accountRepo, store, nil, "UTC")
	ctx := context.Background()

	entry, err := svc.Create(ctx, 1, snapshotBase64(t))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1))
	assert.Empty(t, historyRepo.entries)
	assert.NotContains(t, store.files, entry.FaceImage)
}

func TestHistoryStatisticsCountsTodayAndImporters(t *testing.T) {
	historyRepo, accountRepo, store := newHistoryTestFixture()
	svc := NewHistoryService(historyRepo, accountRepo, store, nil, "UTC")
	ctx := context.Background()

	now := time.Now().UTC()
	historyRepo.entries[1] = &models.EntryHistory{ID: 1, AccountID: 1, EnterAt: now}
	historyRepo.entries[2] = &models.EntryHistory{ID: 2, AccountID: models.ImporterAccountID, EnterAt: now}
	historyRepo.entries[3] = &models.EntryHistory{ID: 3, AccountID: 1, EnterAt: now.Add(-48 * time.Hour)}
	historyRepo.nextID = 4

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalEntries)
	assert.Equal(t, int64(1), stats.TotalImporters)
}
