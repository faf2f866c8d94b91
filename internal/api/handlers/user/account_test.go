package user

import (
	"FoodieFriends/internal/api/middleware"
	"FoodieFriends/internal/core/users"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserService is a mock implementation of users.Service for testing
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req users.RegisterRequest) (*users.Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.Session), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, req users.LoginRequest) (*users.Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.Session), args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, uid, newPassword string) error {
	args := m.Called(ctx, uid, newPassword)
	return args.Error(0)
}

func (m *MockUserService) UpdateName(ctx context.Context, uid, firstName string) error {
	args := m.Called(ctx, uid, firstName)
	return args.Error(0)
}

func (m *MockUserService) DeleteAccount(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func TestHandleRegister_Success(t *testing.T) {
	svc := new(MockUserService)
	handler := NewAccountHandler(svc)

	req := users.RegisterRequest{Email: "a@example.com", Password: "Secret#123", FirstName: "Alice"}
	svc.On("Register", mock.Anything, req).Return(&users.Session{
		User:    &users.User{UID: "u1", Email: req.Email, FirstName: "Alice"},
		IDToken: "tok",
	}, nil)

	r := httptest.NewRequest(http.MethodPost, "/register", jsonBody(t, req))
	w := httptest.NewRecorder()
	handler.HandleRegister(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tok", resp.IDToken)
	assert.Equal(t, "u1", resp.User.UID)
	svc.AssertExpectations(t)
}

func TestHandleRegister_Errors(t *testing.T) {
	tests := []struct {
		err        error
		name       string
		wantStatus int
	}{
		{name: "weak password", err: &users.WeakPasswordError{Reason: "too short"}, wantStatus: http.StatusBadRequest},
		{name: "email taken", err: users.ErrEmailTaken, wantStatus: http.StatusBadRequest},
		{name: "orphaned", err: &users.OrphanedIdentityError{UID: "u", Cause: errors.New("x"), CleanupErr: errors.New("y")}, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockUserService)
			svc.On("Register", mock.Anything, mock.Anything).Return(nil, tt.err)

			r := httptest.NewRequest(http.MethodPost, "/register", jsonBody(t, users.RegisterRequest{Email: "a@example.com"}))
			w := httptest.NewRecorder()
			NewAccountHandler(svc).HandleRegister(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	svc := new(MockUserService)
	svc.On("Login", mock.Anything, users.LoginRequest{Email: "a@example.com", Password: "Wrong#pass1"}).
		Return(nil, users.ErrInvalidCredentials)

	r := httptest.NewRequest(http.MethodPost, "/login", jsonBody(t, users.LoginRequest{Email: "a@example.com", Password: "Wrong#pass1"}))
	w := httptest.NewRecorder()
	NewAccountHandler(svc).HandleLogin(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertExpectations(t)
}

func TestHandleChangePassword(t *testing.T) {
	svc := new(MockUserService)
	handler := NewAccountHandler(svc)

	// Unauthenticated
	r := httptest.NewRequest(http.MethodPost, "/change-password", jsonBody(t, map[string]string{"newPassword": "x"}))
	w := httptest.NewRecorder()
	handler.HandleChangePassword(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	svc.On("ChangePassword", mock.Anything, "u1", "Better#pass1").Return(nil)
	r = httptest.NewRequest(http.MethodPost, "/change-password", jsonBody(t, map[string]string{"newPassword": "Better#pass1"}))
	r = r.WithContext(middleware.SetTestUserID(r.Context(), "u1"))
	w = httptest.NewRecorder()
	handler.HandleChangePassword(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Password updated successfully")
	svc.AssertExpectations(t)
}

func TestHandleUpdateName_Validation(t *testing.T) {
	svc := new(MockUserService)
	svc.On("UpdateName", mock.Anything, "u1", "").Return(users.NewValidationError("firstName", "first name is required"))

	r := httptest.NewRequest(http.MethodPut, "/update-name", jsonBody(t, map[string]string{"firstName": ""}))
	r = r.WithContext(middleware.SetTestUserID(r.Context(), "u1"))
	w := httptest.NewRecorder()
	NewAccountHandler(svc).HandleUpdateName(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}

func TestHandleDeleteAccount(t *testing.T) {
	svc := new(MockUserService)
	svc.On("DeleteAccount", mock.Anything, "u1").Return(nil)
	svc.On("DeleteAccount", mock.Anything, "u2").Return(errors.New("store unavailable"))
	handler := NewAccountHandler(svc)

	r := httptest.NewRequest(http.MethodDelete, "/delete-account", nil)
	r = r.WithContext(middleware.SetTestUserID(r.Context(), "u1"))
	w := httptest.NewRecorder()
	handler.HandleDeleteAccount(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	r = httptest.NewRequest(http.MethodDelete, "/delete-account", nil)
	r = r.WithContext(middleware.SetTestUserID(r.Context(), "u2"))
	w = httptest.NewRecorder()
	handler.HandleDeleteAccount(w, r)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "store unavailable")

	svc.AssertExpectations(t)
}
