package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"famcoach/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authedRequest builds a JSON request whose context already carries a
// user ID, as the auth middleware would leave it.
func authedRequest(t *testing.T, method, target string, userID uuid.UUID, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req.Context(), model.UserIDKey, userID)
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.APIErrorResponse {
	t.Helper()
	var resp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// --- Service mocks ---

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) SubmitStage(ctx context.Context, userID uuid.UUID, index int, payload model.StagePayload) (*model.StageSubmitResponse, error) {
	args := m.Called(ctx, userID, index, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StageSubmitResponse), args.Error(1)
}

func (m *MockProfileService) ResolveMidpoint(ctx context.Context, userID uuid.UUID, cont bool) (*model.StageSubmitResponse, error) {
	args := m.Called(ctx, userID, cont)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StageSubmitResponse), args.Error(1)
}

func (m *MockProfileService) Autosave(ctx context.Context, userID uuid.UUID, draft *model.ProfileDraft) error {
	args := m.Called(ctx, userID, draft)
	return args.Error(0)
}

func (m *MockProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

type MockAssistService struct {
	mock.Mock
}

func (m *MockAssistService) SuggestField(ctx context.Context, userID uuid.UUID, req *model.AssistRequest) (*model.AssistResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AssistResponse), args.Error(1)
}

func (m *MockAssistService) GetUsage(ctx context.Context, userID uuid.UUID) (*model.UsageResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UsageResponse), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) RequestCode(ctx context.Context, req *model.RequestCodeRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAuthService) VerifyCode(ctx context.Context, req *model.VerifyCodeRequest) (*model.SessionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SessionResponse), args.Error(1)
}

func (m *MockAuthService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
