package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kybaloo/expense-management/internal/dto"
	"github.com/kybaloo/expense-management/internal/errs"
	"github.com/kybaloo/expense-management/internal/models"
	"github.com/kybaloo/expense-management/pkg/logger"
)

const (
	defaultCategoryIcon  = "📁"
	defaultCategoryColor = "#3B82F6"
)

type categoryCSStore interface {
	EnsureDefaults(ctx context.Context, defaults []models.Category) error
	ListVisible(ctx context.Context, uid string) ([]*models.Category, error)
	Get(ctx context.Context, categoryID string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, categoryID string) error
}

type categoryService struct {
	store categoryCSStore
}

func NewCategoryService(store categoryCSStore) *categoryService {
	return &categoryService{store: store}
}

// SeedDefaults installs the shared default categories if none exist yet.
// Called once at startup; repeated starts are no-ops.
func (s *categoryService) SeedDefaults(ctx context.Context) error {
	return s.store.EnsureDefaults(ctx, defaultCategories())
}

// List returns the defaults plus the caller's custom categories.
func (s *categoryService) List(ctx context.Context, uid string) ([]*models.Category, error) {
	return s.store.ListVisible(ctx, uid)
}

func (s *categoryService) Create(ctx context.Context, uid string, req dto.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.NewValidationError("Category name is required",
			errs.FieldError{Field: "name", Message: "Category name is required"})
	}

	c := &models.Category{
		ID:       uuid.NewString(),
		Name:     name,
		Icon:     valueOrDefault(req.Icon, defaultCategoryIcon),
		Color:    valueOrDefault(req.Color, defaultCategoryColor),
		IsCustom: true,
		UserID:   uid,
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Info("category created", "category_id", c.ID)
	return c, nil
}

// Update edits one of the caller's custom categories. Defaults and other
// users' categories surface as not found.
func (s *categoryService) Update(ctx context.Context, uid, categoryID string, req dto.UpdateCategoryRequest) (*models.Category, error) {
	c, err := s.editable(ctx, uid, categoryID, "Category not found or not editable")
	if err != nil {
		return nil, err
	}

	applyIfSet(&c.Name, req.Name)
	applyIfSet(&c.Icon, req.Icon)
	applyIfSet(&c.Color, req.Color)

	if err := s.store.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, uid, categoryID string) error {
	if _, err := s.editable(ctx, uid, categoryID, "Category not found or not deletable"); err != nil {
		return err
	}
	return s.store.Delete(ctx, categoryID)
}

// editable loads a category and checks it is the caller's own custom one.
func (s *categoryService) editable(ctx context.Context, uid, categoryID, notFoundMsg string) (*models.Category, error) {
	c, err := s.store.Get(ctx, categoryID)
	if err != nil {
		if _, ok := err.(*errs.NotFoundError); ok {
			return nil, errs.NewNotFoundError(notFoundMsg)
		}
		return nil, err
	}
	if !c.IsCustom || c.UserID != uid {
		return nil, errs.NewNotFoundError(notFoundMsg)
	}
	return c, nil
}

func valueOrDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func applyIfSet(dst *string, src *string) {
	if src != nil && strings.TrimSpace(*src) != "" {
		*dst = *src
	}
}

// defaultCategories is the seed set shared by all users. IDs are stable
// slugs so reseeding attempts collide instead of duplicating.
func defaultCategories() []models.Category {
	now := time.Now()
	list := []models.Category{
		{ID: "default-food-dining", Name: "Food & Dining", Icon: "🍽️", Color: "#FF6B6B"},
		{ID: "default-transportation", Name: "Transportation", Icon: "🚗", Color: "#4ECDC4"},
		{ID: "default-shopping", Name: "Shopping", Icon: "🛍️", Color: "#45B7D1"},
		{ID: "default-entertainment", Name: "Entertainment", Icon: "🎬", Color: "#96CEB4"},
		{ID: "default-bills-utilities", Name: "Bills & Utilities", Icon: "⚡", Color: "#FFEAA7"},
		{ID: "default-healthcare", Name: "Healthcare", Icon: "🏥", Color: "#DDA0DD"},
		{ID: "default-education", Name: "Education", Icon: "📚", Color: "#98D8C8"},
		{ID: "default-travel", Name: "Travel", Icon: "✈️", Color: "#F7DC6F"},
		{ID: "default-salary", Name: "Salary", Icon: "💰", Color: "#82E0AA"},
		{ID: "default-investment", Name: "Investment", Icon: "📈", Color: "#85C1E9"},
		{ID: "default-other-income", Name: "Other Income", Icon: "💵", Color: "#F8C471"},
		{ID: "default-other-expense", Name: "Other Expense", Icon: "💸", Color: "#EC7063"},
	}
	for i := range list {
		list[i].CreatedAt = now
		list[i].UpdatedAt = now
	}
	return list
}
