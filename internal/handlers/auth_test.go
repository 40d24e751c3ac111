package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kybaloo/expense-management/internal/dto"
	"github.com/kybaloo/expense-management/internal/errs"
	"github.com/kybaloo/expense-management/internal/middleware"
	"github.com/kybaloo/expense-management/internal/models"
)

// --- Shared stubs ---

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error

	writeErrorCalled bool
	writeErrorStatus int
	writeErrorCode   string
	writeErrorMsg    string
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, _ *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"success":true}`))
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, _ *http.Request, status int, code, message string) {
	s.writeErrorCalled = true
	s.writeErrorStatus = status
	s.writeErrorCode = code
	s.writeErrorMsg = message
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, _ *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

// withUID injects a UID into the request context.
func withUID(r *http.Request, uid string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UIDKey, uid)
	return r.WithContext(ctx)
}

// --- Stub service ---

type stubAuthService struct {
	registerResp *dto.AuthResponse
	registerErr  error
	lastRegister dto.RegisterRequest

	loginResp *dto.AuthResponse
	loginErr  error
	lastLogin dto.LoginRequest

	refreshResp *dto.TokenPair
	refreshErr  error
	lastRefresh string

	logoutErr  error
	lastLogout string

	meUser *models.User
	meErr  error
	lastMe string
}

func (s *stubAuthService) Register(_ context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	s.lastRegister = req
	return s.registerResp, s.registerErr
}

func (s *stubAuthService) Login(_ context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	s.lastLogin = req
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) Refresh(_ context.Context, refreshToken string) (*dto.TokenPair, error) {
	s.lastRefresh = refreshToken
	return s.refreshResp, s.refreshErr
}

func (s *stubAuthService) Logout(_ context.Context, uid string) error {
	s.lastLogout = uid
	return s.logoutErr
}

func (s *stubAuthService) Me(_ context.Context, uid string) (*models.User, error) {
	s.lastMe = uid
	return s.meUser, s.meErr
}

// --- Tests ---

func TestRegisterSuccess(t *testing.T) {
	svc := &stubAuthService{registerResp: &dto.AuthResponse{
		User:         &models.User{ID: "uid-1", Email: "jane@example.com"},
		AccessToken:  "a",
		RefreshToken: "r",
	}}
	resp := &stubResponseHandler{}
	h := NewAuthHandlers(&Deps{ResponseHandler: resp, AuthSvc: svc})

	body := `{"name":"Jane","email":"jane@example.com","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rr := httptest.NewRecorder()

	h.Register(rr, req)

	if svc.lastRegister.Email != "jane@example.com" {
		t.Fatalf("service received wrong request: %+v", svc.lastRegister)
	}
	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("WriteSuccess not called with status 201")
	}
}

func TestRegisterInvalidJSON(t *testing.T) {
	svc := &stubAuthService{}
	resp := &stubResponseHandler{}
	h := NewAuthHandlers(&Deps{ResponseHandler: resp, AuthSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("not-json"))
	rr := httptest.NewRecorder()

	h.Register(rr, req)

	if svc.lastRegister.Email != "" {
		t.Fatalf("service should not be called on invalid JSON")
	}
	if !resp.handleErrorCalled {
		t.Fatalf("HandleError should be called on invalid JSON")
	}
	var verr *errs.ValidationError
	if !errors.As(resp.handleError, &verr) {
		t.Fatalf("expected validation error, got %v", resp.handleError)
	}
}

func TestLoginServiceError(t *testing.T) {
	svc := &stubAuthService{loginErr: errs.NewAuthError("Invalid credentials")}
	resp := &stubResponseHandler{}
	h := NewAuthHandlers(&Deps{ResponseHandler: resp, AuthSvc: svc})

	body := `{"email":"jane@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rr := httptest.NewRecorder()

	h.Login(rr, req)

	if !resp.handleErrorCalled {
		t.Fatalf("expected handler to delegate error to HandleError")
	}
	if !errors.Is(resp.handleError, svc.loginErr) {
		t.Fatalf("unexpected error passed to HandleError: %v", resp.handleError)
	}
	if resp.writeSuccessCalled {
		t.Fatalf("WriteSuccess should not be called on service error")
	}
}

func TestRefreshRequiresToken(t *testing.T) {
	svc := &stubAuthService{}
	resp := &stubResponseHandler{}
	h := NewAuthHandlers(&Deps{ResponseHandler: resp, AuthSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()

	h.Refresh(rr, req)

	if svc.lastRefresh != "" {
		t.Fatalf("service should not be called without a refresh token")
	}
	var aerr *errs.AuthError
	if !resp.handleErrorCalled || !errors.As(resp.handleError, &aerr) {
		t.Fatalf("expected auth error, got %v", resp.handleError)
	}
}

func TestRefreshSuccess(t *testing.T) {
	svc := &stubAuthService{refreshResp: &dto.TokenPair{AccessToken: "a2", RefreshToken: "r2"}}
	resp := &stubResponseHandler{}
	h := NewAuthHandlers(&Deps{ResponseHandler: resp, AuthSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{"refreshToken":"r1"}`))
	rr := httptest.NewRecorder()

	h.Refresh(rr, req)

	if svc.lastRefresh != "r1" {
		t.Fatalf("service received wrong token: %q", svc.lastRefresh)
	}
	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("WriteSuccess not called with status 200")
	}
}

func TestLogoutUsesContextUID(t *testing.T) {
	svc := &stubAuthService{}
	resp := &stubResponseHandler{}
	h := NewAuthHandlers(&Deps{ResponseHandler: resp, AuthSvc: svc})

	req := withUID(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), "uid-123")
	rr := httptest.NewRecorder()

	h.Logout(rr, req)

	if svc.lastLogout != "uid-123" {
		t.Fatalf("service received wrong uid: %q", svc.lastLogout)
	}
	if !resp.writeSuccessCalled {
		t.Fatalf("WriteSuccess not called")
	}
}

func TestMeSuccess(t *testing.T) {
	svc := &stubAuthService{meUser: &models.User{ID: "uid-123", Name: "Jane"}}
	resp := &stubResponseHandler{}
	h := NewAuthHandlers(&Deps{ResponseHandler: resp, AuthSvc: svc})

	req := withUID(httptest.NewRequest(http.MethodGet, "/auth/me", nil), "uid-123")
	rr := httptest.NewRecorder()

	h.Me(rr, req)

	if svc.lastMe != "uid-123" {
		t.Fatalf("service received wrong uid: %q", svc.lastMe)
	}
	user, ok := resp.writeSuccessData.(*models.User)
	if !ok || user.ID != "uid-123" {
		t.Fatalf("unexpected response payload: %+v", resp.writeSuccessData)
	}
}
