package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kybaloo/expense-management/internal/dto"
	"github.com/kybaloo/expense-management/internal/errs"
	"github.com/kybaloo/expense-management/internal/models"
	"github.com/kybaloo/expense-management/pkg/logger"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

type transactionTSStore interface {
	Create(ctx context.Context, uid string, t *models.Transaction) error
	Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error)
	Update(ctx context.Context, uid string, t *models.Transaction) error
	Delete(ctx context.Context, uid, transactionID string) error
	Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error
}

// categoryResolver is the slice of the category store the transaction
// service needs: reference validation and display metadata.
type categoryResolver interface {
	Get(ctx context.Context, categoryID string) (*models.Category, error)
	ListVisible(ctx context.Context, uid string) ([]*models.Category, error)
}

type transactionService struct {
	store      transactionTSStore
	categories categoryResolver
}

func NewTransactionService(store transactionTSStore, categories categoryResolver) *transactionService {
	return &transactionService{store: store, categories: categories}
}

// Create validates the request and stores the transaction with the amount's
// absolute value; the sign is carried by the type.
func (s *transactionService) Create(ctx context.Context, uid string, req dto.CreateTransactionRequest) (*dto.TransactionView, error) {
	if err := validateCreateTransaction(req); err != nil {
		return nil, err
	}

	category, err := s.visibleCategory(ctx, uid, req.CategoryID)
	if err != nil {
		return nil, err
	}

	date := time.Now()
	if req.Date != nil {
		date, err = parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
	}

	t := &models.Transaction{
		ID:          uuid.NewString(),
		Amount:      math.Abs(*req.Amount),
		Description: strings.TrimSpace(req.Description),
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		Date:        date,
	}
	if err := s.store.Create(ctx, uid, t); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Info("transaction created", "transaction_id", t.ID, "type", t.Type)

	return joinOne(t, category), nil
}

func (s *transactionService) Get(ctx context.Context, uid, transactionID string) (*dto.TransactionView, error) {
	t, err := s.store.Get(ctx, uid, transactionID)
	if err != nil {
		return nil, err
	}
	return joinOne(t, s.lookup(ctx, t.CategoryID)), nil
}

// Update applies the provided fields only. A new category reference is
// re-validated against the caller's visible set.
func (s *transactionService) Update(ctx context.Context, uid, transactionID string, req dto.UpdateTransactionRequest) (*dto.TransactionView, error) {
	if err := validateUpdateTransaction(req); err != nil {
		return nil, err
	}

	t, err := s.store.Get(ctx, uid, transactionID)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.visibleCategory(ctx, uid, *req.CategoryID); err != nil {
			return nil, err
		}
		t.CategoryID = *req.CategoryID
	}
	if req.Amount != nil {
		t.Amount = math.Abs(*req.Amount)
	}
	if req.Description != nil {
		t.Description = strings.TrimSpace(*req.Description)
	}
	if req.Type != nil {
		t.Type = *req.Type
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		t.Date = date
	}

	if err := s.store.Update(ctx, uid, t); err != nil {
		return nil, err
	}
	return joinOne(t, s.lookup(ctx, t.CategoryID)), nil
}

func (s *transactionService) Delete(ctx context.Context, uid, transactionID string) error {
	return s.store.Delete(ctx, uid, transactionID)
}

// List pages through the user's transactions, newest first. Type, category
// and date range are pushed down to the store; description search and
// pagination run in-process.
func (s *transactionService) List(ctx context.Context, uid string, args dto.ListTransactionsArgs) (*dto.ListTransactionsResponse, error) {
	page := args.Page
	if page < 1 {
		page = defaultPage
	}
	limit := args.Limit
	if limit < 1 {
		limit = defaultLimit
	}

	q := dto.TransactionQuery{CategoryID: args.CategoryID}
	if args.Type != nil && models.ValidType(*args.Type) {
		q.Type = args.Type
	}
	// Range filtering applies only when both bounds are given.
	if args.StartDate != nil && args.EndDate != nil {
		q.DateFrom = args.StartDate
		q.DateTo = args.EndDate
	}

	search := strings.ToLower(strings.TrimSpace(args.Search))
	var matched []*models.Transaction
	err := s.store.Query(ctx, uid, q, func(t *models.Transaction) error {
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) {
			return nil
		}
		matched = append(matched, t)
		return nil
	})
	if err != nil {
		return nil, err
	}

	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	catIndex, err := s.visibleIndex(ctx, uid)
	if err != nil {
		return nil, err
	}

	views := make([]dto.TransactionView, 0, end-start)
	for _, t := range matched[start:end] {
		views = append(views, *joinOne(t, catIndex[t.CategoryID]))
	}

	return &dto.ListTransactionsResponse{
		Transactions: views,
		Total:        total,
		TotalPages:   (total + limit - 1) / limit,
		CurrentPage:  page,
	}, nil
}

// visibleCategory resolves a category reference for the user, mapping both
// missing and foreign categories to the same validation failure.
func (s *transactionService) visibleCategory(ctx context.Context, uid, categoryID string) (*models.Category, error) {
	c, err := s.categories.Get(ctx, categoryID)
	if err != nil {
		if _, ok := err.(*errs.NotFoundError); ok {
			return nil, errs.NewValidationError("Invalid category",
				errs.FieldError{Field: "categoryId", Message: "Invalid category"})
		}
		return nil, err
	}
	if !c.VisibleTo(uid) {
		return nil, errs.NewValidationError("Invalid category",
			errs.FieldError{Field: "categoryId", Message: "Invalid category"})
	}
	return c, nil
}

// visibleIndex maps category ID to category for everything the user can see.
func (s *transactionService) visibleIndex(ctx context.Context, uid string) (map[string]*models.Category, error) {
	visible, err := s.categories.ListVisible(ctx, uid)
	if err != nil {
		return nil, err
	}
	index := make(map[string]*models.Category, len(visible))
	for _, c := range visible {
		index[c.ID] = c
	}
	return index, nil
}

// lookup is the best-effort single-category join for read paths; a dangling
// reference yields nil rather than an error.
func (s *transactionService) lookup(ctx context.Context, categoryID string) *models.Category {
	c, err := s.categories.Get(ctx, categoryID)
	if err != nil {
		return nil
	}
	return c
}

func joinOne(t *models.Transaction, c *models.Category) *dto.TransactionView {
	view := &dto.TransactionView{Transaction: *t}
	if c != nil {
		view.Category = &dto.CategoryRef{
			ID:    c.ID,
			Name:  c.Name,
			Icon:  c.Icon,
			Color: c.Color,
		}
	}
	return view
}

func validateCreateTransaction(req dto.CreateTransactionRequest) error {
	var fields []errs.FieldError

	if req.Amount == nil {
		fields = append(fields, errs.FieldError{Field: "amount", Message: "Amount must be a number"})
	}
	if strings.TrimSpace(req.Description) == "" {
		fields = append(fields, errs.FieldError{Field: "description", Message: "Description is required"})
	}
	if !models.ValidType(req.Type) {
		fields = append(fields, errs.FieldError{Field: "type", Message: "Type must be income or expense"})
	}
	if req.CategoryID == "" {
		fields = append(fields, errs.FieldError{Field: "categoryId", Message: "Valid category ID is required"})
	}

	if len(fields) > 0 {
		return errs.NewValidationError("Validation failed", fields...)
	}
	return nil
}

func validateUpdateTransaction(req dto.UpdateTransactionRequest) error {
	var fields []errs.FieldError

	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		fields = append(fields, errs.FieldError{Field: "description", Message: "Description cannot be empty"})
	}
	if req.Type != nil && !models.ValidType(*req.Type) {
		fields = append(fields, errs.FieldError{Field: "type", Message: "Type must be income or expense"})
	}
	if req.CategoryID != nil && *req.CategoryID == "" {
		fields = append(fields, errs.FieldError{Field: "categoryId", Message: "Valid category ID is required"})
	}

	if len(fields) > 0 {
		return errs.NewValidationError("Validation failed", fields...)
	}
	return nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, nil
		}
	}
	return time.Time{}, errs.NewValidationError("Date must be valid",
		errs.FieldError{Field: "date", Message: "Date must be valid"})
}
