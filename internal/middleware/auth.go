package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/kybaloo/expense-management/internal/errs"
	"github.com/kybaloo/expense-management/internal/response"
)

// accessVerifier is the stateless access-token check: signature and expiry
// only, no store lookup.
type accessVerifier interface {
	VerifyAccess(tokenStr string) (string, error)
}

type Middleware struct {
	Tokens          accessVerifier
	ResponseHandler response.ResponseHandler
}

func NewMiddleware(tokens accessVerifier, rh response.ResponseHandler) *Middleware {
	return &Middleware{Tokens: tokens, ResponseHandler: rh}
}

// context key
type contextKey string

const UIDKey contextKey = "uid"

// RequireAuth verifies the bearer access token and adds the subject user ID
// to the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get("Authorization")
		if header == "" {
			m.ResponseHandler.HandleError(w, r, errs.NewAuthError("Missing Authorization header"))
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.ResponseHandler.HandleError(w, r, errs.NewAuthError("Invalid Authorization header"))
			return
		}

		uid, err := m.Tokens.VerifyAccess(parts[1])
		if err != nil {
			m.ResponseHandler.HandleError(w, r, errs.NewAuthError("Invalid or expired token"))
			return
		}

		ctx := context.WithValue(r.Context(), UIDKey, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UID extracts the authenticated user ID from the context.
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}
