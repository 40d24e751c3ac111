package dto

import (
	"time"

	"github.com/kybaloo/expense-management/internal/models"
)

type CreateTransactionRequest struct {
	Amount      *float64 `json:"amount"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	CategoryID  string   `json:"categoryId"`
	Date        *string  `json:"date"`
}

// UpdateTransactionRequest is partial; nil fields are left unchanged.
type UpdateTransactionRequest struct {
	Amount      *float64 `json:"amount"`
	Description *string  `json:"description"`
	Type        *string  `json:"type"`
	CategoryID  *string  `json:"categoryId"`
	Date        *string  `json:"date"`
}

// TransactionQuery holds the filters the store can push down to Firestore.
// Limit caps the number of streamed documents; zero means no cap.
type TransactionQuery struct {
	Type       *string
	CategoryID *string
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
}

// ListTransactionsArgs are the full listing parameters. Search and
// pagination are applied in-process on top of TransactionQuery.
type ListTransactionsArgs struct {
	Page       int
	Limit      int
	Type       *string
	CategoryID *string
	StartDate  *time.Time
	EndDate    *time.Time
	Search     string
}

// TransactionView is a transaction with its category metadata joined in.
// Category is nil when the referenced category no longer exists.
type TransactionView struct {
	models.Transaction
	Category *CategoryRef `json:"category"`
}

// CategoryRef is the display subset of a category embedded in responses.
type CategoryRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type ListTransactionsResponse struct {
	Transactions []TransactionView `json:"transactions"`
	Total        int               `json:"total"`
	TotalPages   int               `json:"totalPages"`
	CurrentPage  int               `json:"currentPage"`
}
