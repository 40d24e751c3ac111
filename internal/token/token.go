package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kybaloo/expense-management/internal/errs"
)

// Default lifetimes: short-lived access tokens, a rolling week for refresh.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Manager signs and verifies the two token kinds with separate HS256
// secrets. Access-token verification is stateless; whether a refresh token
// is still the active one for its subject is the auth service's concern.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Manager {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// IssuePair returns a fresh access and refresh token for the user.
func (m *Manager) IssuePair(userID string) (access, refresh string, err error) {
	access, err = m.sign(userID, m.accessSecret, m.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = m.sign(userID, m.refreshSecret, m.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// VerifyAccess returns the subject user ID of a valid access token.
func (m *Manager) VerifyAccess(tokenStr string) (string, error) {
	return m.verify(tokenStr, m.accessSecret)
}

// VerifyRefresh returns the subject user ID of a structurally valid refresh
// token. The stored-token equality check happens elsewhere.
func (m *Manager) VerifyRefresh(tokenStr string) (string, error) {
	return m.verify(tokenStr, m.refreshSecret)
}

func (m *Manager) sign(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		// Timestamps have second precision, so the jti is what keeps two
		// tokens issued back-to-back for the same user distinct. Rotation
		// relies on that: the replaced refresh token must never equal its
		// successor.
		ID:        uuid.NewString(),
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (m *Manager) verify(tokenStr string, secret []byte) (string, error) {
	claims := new(jwt.RegisteredClaims)
	tok, err := jwt.ParseWithClaims(tokenStr, claims,
		func(_ *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !tok.Valid {
		return "", errs.NewAuthError("Invalid token")
	}
	if claims.Subject == "" {
		return "", errs.NewAuthError("Invalid token")
	}
	return claims.Subject, nil
}
