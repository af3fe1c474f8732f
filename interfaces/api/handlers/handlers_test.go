package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"face-attendance/domain/models"
	"face-attendance/domain/repositories"
	"face-attendance/domain/services"
)

// Stub services returning canned values, one per service interface.

type stubAuthService struct {
	loginResult *services.LoginResult
	loginErr    error
	signUpErr   error
}

func (s *stubAuthService) Login(context.Context, string, string) (*services.LoginResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) SignUp(_ context.Context, username string, _ string, _ models.Role) (string, error) {
	if s.signUpErr != nil {
		return "", s.signUpErr
	}
	return username, nil
}

type stubAccountService struct {
	stats     *services.AccountStatistics
	updateErr error
}

func (s *stubAccountService) List(context.Context) ([]services.AccountSummary, error) {
	return nil, nil
}

func (s *stubAccountService) ListDetails(context.Context) ([]models.Account, error) {
	return nil, nil
}

func (s *stubAccountService) GetByUsername(context.Context, string) (*models.Account, error) {
	return nil, services.ErrAccountNotFound
}

func (s *stubAccountService) Update(context.Context, string, services.UpdateAccountInput) error {
	return s.updateErr
}

func (s *stubAccountService) Statistics(context.Context) (*services.AccountStatistics, error) {
	return s.stats, nil
}

type stubHistoryService struct {
	entry     *services.CreatedEntry
	createErr error
	listErr   error
	stats     *services.EntryStatistics
}

func (s *stubHistoryService) Create(context.Context, int64, string) (*services.CreatedEntry, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.entry, nil
}

func (s *stubHistoryService) Delete(context.Context, int64) error {
	return services.ErrHistoryNotFound
}

func (s *stubHistoryService) ListAll(context.Context) ([]repositories.HistoryWithAccount, error) {
	return nil, s.listErr
}

func (s *stubHistoryService) List(context.Context) ([]models.EntryHistory, error) {
	return nil, s.listErr
}

func (s *stubHistoryService) ListByAccount(context.Context, int64) ([]repositories.HistoryWithAccount, error) {
	return nil, s.listErr
}

func (s *stubHistoryService) Statistics(context.Context) (*services.EntryStatistics, error) {
	return s.stats, nil
}

type stubFaceService struct {
	registration *services.FaceRegistration
	registerErr  error
	detectErr    error
	stats        *services.FaceStatistics
}

func (s *stubFaceService) Register(context.Context, int64, string) (*services.FaceRegistration, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return s.registration, nil
}

func (s *stubFaceService) Detect(context.Context, string) (*services.DetectionResult, error) {
	return nil, s.detectErr
}

func (s *stubFaceService) Identify(context.Context, string, int, float64) ([]repositories.FaceMatch, error) {
	return nil, s.detectErr
}

func (s *stubFaceService) GetByAccount(context.Context, int64) ([]services.RegisteredFaceData, error) {
	return nil, services.ErrNoFaceData
}

func (s *stubFaceService) ListAllWithUsername(context.Context) ([]services.FaceAdminRow, error) {
	return nil, nil
}

func (s *stubFaceService) Delete(context.Context, int64) error {
	return services.ErrFaceNotFound
}

func (s *stubFaceService) Statistics(context.Context) (*services.FaceStatistics, error) {
	return s.stats, nil
}

func performJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
