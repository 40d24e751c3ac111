package store

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kybaloo/expense-management/internal/errs"
	"github.com/kybaloo/expense-management/internal/models"
	"github.com/kybaloo/expense-management/pkg/logger"
)

type categoryStore struct {
	client     *firestore.Client
	collection *firestore.CollectionRef
}

func NewCategoryStore(client *firestore.Client) *categoryStore {
	return &categoryStore{
		client:     client,
		collection: client.Collection("categories"),
	}
}

// EnsureDefaults seeds the shared default categories once. It is a no-op
// when any default already exists, so repeated process starts are safe.
func (s *categoryStore) EnsureDefaults(ctx context.Context, defaults []models.Category) error {
	log := logger.FromContext(ctx)

	docs, err := s.collection.Where("isCustom", "==", false).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return errs.NewDatabaseError("read", "failed to check default categories", err)
	}
	if len(docs) > 0 {
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(defaults))
	now := time.Now()

	for _, c := range defaults {
		c.IsCustom = false
		c.CreatedAt = now
		c.UpdatedAt = now

		job, err := bw.Create(s.collection.Doc(c.ID), c)
		if err != nil {
			bw.End()
			return errs.NewDatabaseError("create", "failed to schedule default category", err)
		}
		jobs = append(jobs, job)
	}

	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return errs.NewDatabaseError("create", "failed to seed default categories", err)
		}
	}

	log.Info("default categories seeded", "count", len(defaults))
	return nil
}

// ListVisible returns the defaults plus the user's custom categories,
// defaults first, each group sorted by name. Firestore has no OR filter
// across ownership arms here, so the two queries are merged in-process.
func (s *categoryStore) ListVisible(ctx context.Context, uid string) ([]*models.Category, error) {
	defaults, err := s.getAll(ctx, s.collection.Where("isCustom", "==", false).Documents(ctx))
	if err != nil {
		return nil, err
	}
	customs, err := s.getAll(ctx, s.collection.Where("userId", "==", uid).Where("isCustom", "==", true).Documents(ctx))
	if err != nil {
		return nil, err
	}

	sortByName(defaults)
	sortByName(customs)
	return append(defaults, customs...), nil
}

func (s *categoryStore) Get(ctx context.Context, categoryID string) (*models.Category, error) {
	doc, err := s.collection.Doc(categoryID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("Category not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get category", err)
	}

	var c models.Category
	if err := doc.DataTo(&c); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse category data", err)
	}
	return &c, nil
}

func (s *categoryStore) Create(ctx context.Context, c *models.Category) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	_, err := s.collection.Doc(c.ID).Create(ctx, c)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create category", err)
	}
	return nil
}

func (s *categoryStore) Update(ctx context.Context, c *models.Category) error {
	c.UpdatedAt = time.Now()
	_, err := s.collection.Doc(c.ID).Set(ctx, c)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update category", err)
	}
	return nil
}

func (s *categoryStore) Delete(ctx context.Context, categoryID string) error {
	_, err := s.collection.Doc(categoryID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete category", err)
	}
	return nil
}

func (s *categoryStore) getAll(ctx context.Context, it *firestore.DocumentIterator) ([]*models.Category, error) {
	docs, err := it.GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list categories", err)
	}

	categories := make([]*models.Category, 0, len(docs))
	for _, d := range docs {
		var c models.Category
		if err := d.DataTo(&c); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse category data", err)
		}
		categories = append(categories, &c)
	}
	return categories, nil
}

func sortByName(categories []*models.Category) {
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
}
