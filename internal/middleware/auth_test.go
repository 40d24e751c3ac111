package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kybaloo/expense-management/internal/errs"
)

type stubVerifier struct {
	uid       string
	err       error
	lastToken string
}

func (s *stubVerifier) VerifyAccess(tokenStr string) (string, error) {
	s.lastToken = tokenStr
	return s.uid, s.err
}

type stubResponseHandler struct {
	handleErrorCalled bool
	handleError       error
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, _ *http.Request, status int, _ any) {
	w.WriteHeader(status)
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, _ *http.Request, status int, _, _ string) {
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, _ *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusUnauthorized)
}

func TestRequireAuthInjectsUID(t *testing.T) {
	verifier := &stubVerifier{uid: "uid-123"}
	resp := &stubResponseHandler{}
	m := NewMiddleware(verifier, resp)

	var gotUID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID = UID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rr := httptest.NewRecorder()

	m.RequireAuth(next).ServeHTTP(rr, req)

	if verifier.lastToken != "good-token" {
		t.Fatalf("verifier received wrong token: %q", verifier.lastToken)
	}
	if gotUID != "uid-123" {
		t.Fatalf("next handler saw wrong uid: %q", gotUID)
	}
	if resp.handleErrorCalled {
		t.Fatalf("HandleError should not be called for a valid token")
	}
}

func TestRequireAuthMissingHeader(t *testing.T) {
	verifier := &stubVerifier{}
	resp := &stubResponseHandler{}
	m := NewMiddleware(verifier, resp)

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { nextCalled = true })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	m.RequireAuth(next).ServeHTTP(rr, req)

	if nextCalled {
		t.Fatalf("next handler should not run without a header")
	}
	var aerr *errs.AuthError
	if !resp.handleErrorCalled || !errors.As(resp.handleError, &aerr) {
		t.Fatalf("expected auth error, got %v", resp.handleError)
	}
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	for _, header := range []string{"good-token", "Basic abc", "Bearer", "Bearer a b"} {
		verifier := &stubVerifier{}
		resp := &stubResponseHandler{}
		m := NewMiddleware(verifier, resp)

		nextCalled := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { nextCalled = true })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rr := httptest.NewRecorder()

		m.RequireAuth(next).ServeHTTP(rr, req)

		if nextCalled {
			t.Fatalf("next handler should not run for header %q", header)
		}
		if verifier.lastToken != "" {
			t.Fatalf("verifier should not be called for header %q", header)
		}
	}
}

func TestRequireAuthBearerCaseInsensitive(t *testing.T) {
	verifier := &stubVerifier{uid: "uid-123"}
	resp := &stubResponseHandler{}
	m := NewMiddleware(verifier, resp)

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { nextCalled = true })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer good-token")
	rr := httptest.NewRecorder()

	m.RequireAuth(next).ServeHTTP(rr, req)

	if !nextCalled {
		t.Fatalf("lowercase bearer scheme should be accepted")
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	verifier := &stubVerifier{err: errs.NewAuthError("Invalid token")}
	resp := &stubResponseHandler{}
	m := NewMiddleware(verifier, resp)

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { nextCalled = true })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rr := httptest.NewRecorder()

	m.RequireAuth(next).ServeHTTP(rr, req)

	if nextCalled {
		t.Fatalf("next handler should not run for an invalid token")
	}
	var aerr *errs.AuthError
	if !errors.As(resp.handleError, &aerr) {
		t.Fatalf("expected auth error, got %v", resp.handleError)
	}
}
