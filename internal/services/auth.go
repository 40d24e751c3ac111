package services

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kybaloo/expense-management/internal/dto"
	"github.com/kybaloo/expense-management/internal/errs"
	"github.com/kybaloo/expense-management/internal/models"
	"github.com/kybaloo/expense-management/pkg/logger"
)

// invalidCredentials is the uniform login failure: unknown email and wrong
// password are indistinguishable to the caller.
const invalidCredentials = "Invalid credentials"

type authUserStore interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, uid string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetRefreshToken(ctx context.Context, uid, refreshToken string) error
	RotateRefreshToken(ctx context.Context, uid, oldToken, newToken string) error
}

type tokenIssuer interface {
	IssuePair(userID string) (access, refresh string, err error)
	VerifyRefresh(tokenStr string) (string, error)
}

type authService struct {
	users  authUserStore
	tokens tokenIssuer
}

func NewAuthService(users authUserStore, tokens tokenIssuer) *authService {
	return &authService{users: users, tokens: tokens}
}

// Register creates the user with a bcrypt password hash and opens a session.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := validateRegister(req); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, errs.NewAlreadyExistsError("User already exists")
	} else if _, ok := err.(*errs.NotFoundError); !ok {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	access, refresh, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}
	user.RefreshToken = refresh

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Info("user registered", "uid", user.ID)

	return &dto.AuthResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// Login verifies credentials and replaces any prior session: the stored
// refresh token is overwritten, invalidating the previous one.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := validateLogin(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if _, ok := err.(*errs.NotFoundError); ok {
			return nil, errs.NewAuthError(invalidCredentials)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errs.NewAuthError(invalidCredentials)
	}

	access, refresh, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, err
	}
	user.RefreshToken = refresh

	log := logger.FromContext(ctx)
	log.Info("user logged in", "uid", user.ID)

	return &dto.AuthResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// Refresh exchanges a valid, currently stored refresh token for a new pair.
// The rotation is a compare-and-swap on the user document, so a token can be
// redeemed at most once.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	uid, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, errs.NewAuthError("Invalid refresh token")
	}

	access, refresh, err := s.tokens.IssuePair(uid)
	if err != nil {
		return nil, err
	}
	if err := s.users.RotateRefreshToken(ctx, uid, refreshToken, refresh); err != nil {
		return nil, err
	}

	return &dto.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// Logout clears the stored refresh token. Already-issued access tokens stay
// valid until they expire; only refresh is revocable.
func (s *authService) Logout(ctx context.Context, uid string) error {
	if err := s.users.SetRefreshToken(ctx, uid, ""); err != nil {
		return err
	}
	log := logger.FromContext(ctx)
	log.Info("user logged out", "uid", uid)
	return nil
}

// Me returns the caller's profile.
func (s *authService) Me(ctx context.Context, uid string) (*models.User, error) {
	return s.users.Get(ctx, uid)
}

func validateRegister(req dto.RegisterRequest) error {
	var fields []errs.FieldError

	if len(strings.TrimSpace(req.Name)) < 2 {
		fields = append(fields, errs.FieldError{Field: "name", Message: "Name must be at least 2 characters"})
	}
	if _, err := mail.ParseAddress(req.Email); err != nil || req.Email != strings.TrimSpace(req.Email) {
		fields = append(fields, errs.FieldError{Field: "email", Message: "Please provide a valid email"})
	}
	if len(req.Password) < 6 {
		fields = append(fields, errs.FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}

	if len(fields) > 0 {
		return errs.NewValidationError("Validation failed", fields...)
	}
	return nil
}

// validateLogin rejects malformed payloads before the credential check, so
// only well-formed requests reach the uniform auth failure.
func validateLogin(req dto.LoginRequest) error {
	var fields []errs.FieldError

	if _, err := mail.ParseAddress(req.Email); err != nil || req.Email != strings.TrimSpace(req.Email) {
		fields = append(fields, errs.FieldError{Field: "email", Message: "Please provide a valid email"})
	}
	if req.Password == "" {
		fields = append(fields, errs.FieldError{Field: "password", Message: "Password is required"})
	}

	if len(fields) > 0 {
		return errs.NewValidationError("Validation failed", fields...)
	}
	return nil
}
