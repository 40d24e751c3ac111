package models

import (
	"time"
)

// Category is a categories/{id} document. Default categories (IsCustom
// false) are seeded at startup, shared across users and immutable. Custom
// categories carry the owning UserID and are visible only to that user.
type Category struct {
	ID        string    `firestore:"id" json:"id"`
	Name      string    `firestore:"name" json:"name"`
	Color     string    `firestore:"color" json:"color"`
	Icon      string    `firestore:"icon" json:"icon"`
	IsCustom  bool      `firestore:"isCustom" json:"isCustom"`
	UserID    string    `firestore:"userId,omitempty" json:"userId,omitempty"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// VisibleTo reports whether a user may reference this category.
func (c *Category) VisibleTo(uid string) bool {
	return !c.IsCustom || c.UserID == uid
}
