package models

import (
	"time"
)

// User is a users/{id} document. PasswordHash and RefreshToken never leave
// the backend. RefreshToken holds the single currently valid refresh token;
// empty means no active session.
type User struct {
	ID           string    `firestore:"id" json:"id"`
	Name         string    `firestore:"name" json:"name"`
	Email        string    `firestore:"email" json:"email"`
	PasswordHash string    `firestore:"passwordHash" json:"-"`
	RefreshToken string    `firestore:"refreshToken" json:"-"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt" json:"updatedAt"`
}
