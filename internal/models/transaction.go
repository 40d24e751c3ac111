package models

import (
	"time"
)

// Transaction types.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction is a users/{uid}/transactions/{id} document. Amount is stored
// as an absolute value; the sign is implied by Type. Ownership is structural
// (the document lives under its owner).
type Transaction struct {
	ID          string    `firestore:"id" json:"id"`
	Amount      float64   `firestore:"amount" json:"amount"`
	Description string    `firestore:"description" json:"description"`
	Type        string    `firestore:"type" json:"type"`
	CategoryID  string    `firestore:"categoryId" json:"categoryId"`
	Date        time.Time `firestore:"date" json:"date"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// ValidType reports whether t is one of the two transaction types.
func ValidType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}
