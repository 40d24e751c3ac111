package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kybaloo/expense-management/internal/dto"
	"github.com/kybaloo/expense-management/internal/errs"
	"github.com/kybaloo/expense-management/internal/models"
)

type transactionStore struct {
	client *firestore.Client
}

func NewTransactionStore(client *firestore.Client) *transactionStore {
	return &transactionStore{client: client}
}

func (s *transactionStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("transactions")
}

func (s *transactionStore) Create(ctx context.Context, uid string, t *models.Transaction) error {
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	_, err := s.collection(uid).Doc(t.ID).Create(ctx, t)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create transaction", err)
	}
	return nil
}

func (s *transactionStore) Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error) {
	doc, err := s.collection(uid).Doc(transactionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("Transaction not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get transaction", err)
	}

	var t models.Transaction
	if err := doc.DataTo(&t); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse transaction data", err)
	}
	return &t, nil
}

func (s *transactionStore) Update(ctx context.Context, uid string, t *models.Transaction) error {
	t.UpdatedAt = time.Now()
	_, err := s.collection(uid).Doc(t.ID).Set(ctx, t)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update transaction", err)
	}
	return nil
}

func (s *transactionStore) Delete(ctx context.Context, uid, transactionID string) error {
	_, err := s.collection(uid).Doc(transactionID).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound || status.Code(err) == codes.FailedPrecondition {
			return errs.NewNotFoundError("Transaction not found")
		}
		return errs.NewDatabaseError("delete", "failed to delete transaction", err)
	}
	return nil
}

// Query streams the user's transactions matching q to handle, newest first.
// Filters that Firestore can evaluate are pushed down; free-text search has
// no document-store equivalent and is applied by the caller.
func (s *transactionStore) Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error {
	query := s.collection(uid).Query
	if q.Type != nil {
		query = query.Where("type", "==", *q.Type)
	}
	if q.CategoryID != nil {
		query = query.Where("categoryId", "==", *q.CategoryID)
	}
	if q.DateFrom != nil {
		query = query.Where("date", ">=", *q.DateFrom)
	}
	if q.DateTo != nil {
		query = query.Where("date", "<=", *q.DateTo)
	}
	query = query.OrderBy("date", firestore.Desc)
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return errs.NewDatabaseError("read", "failed to query transactions", err)
	}

	for _, d := range docs {
		var t models.Transaction
		if err := d.DataTo(&t); err != nil {
			return errs.NewDatabaseError("read", "failed to parse transaction data", err)
		}
		if err := handle(&t); err != nil {
			return err
		}
	}
	return nil
}
