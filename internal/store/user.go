package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kybaloo/expense-management/internal/errs"
	"github.com/kybaloo/expense-management/internal/models"
)

type userStore struct {
	client     *firestore.Client
	collection *firestore.CollectionRef
}

func NewUserStore(client *firestore.Client) *userStore {
	return &userStore{
		client:     client,
		collection: client.Collection("users"),
	}
}

func (s *userStore) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := s.collection.Doc(user.ID).Create(ctx, user)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("User already exists")
		}
		return errs.NewDatabaseError("create", "failed to create user", err)
	}
	return nil
}

func (s *userStore) Get(ctx context.Context, uid string) (*models.User, error) {
	doc, err := s.collection.Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("User not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get user", err)
	}

	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse user data", err)
	}
	return &user, nil
}

// GetByEmail looks a user up by exact (case-sensitive) email.
func (s *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	docs, err := s.collection.Where("email", "==", email).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to query user by email", err)
	}
	if len(docs) == 0 {
		return nil, errs.NewNotFoundError("User not found")
	}

	var user models.User
	if err := docs[0].DataTo(&user); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse user data", err)
	}
	return &user, nil
}

// SetRefreshToken unconditionally replaces the stored refresh token. Login
// and register use this; an empty token clears the session (logout).
func (s *userStore) SetRefreshToken(ctx context.Context, uid, refreshToken string) error {
	_, err := s.collection.Doc(uid).Update(ctx, []firestore.Update{
		{Path: "refreshToken", Value: refreshToken},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("User not found")
		}
		return errs.NewDatabaseError("update", "failed to set refresh token", err)
	}
	return nil
}

// RotateRefreshToken swaps oldToken for newToken inside a Firestore
// transaction. The equality check and write are serialized on the user
// document, so two concurrent rotations of the same token cannot both
// succeed.
func (s *userStore) RotateRefreshToken(ctx context.Context, uid, oldToken, newToken string) error {
	ref := s.collection.Doc(uid)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errs.NewAuthError("Invalid refresh token")
			}
			return err
		}

		var user models.User
		if err := doc.DataTo(&user); err != nil {
			return err
		}
		if user.RefreshToken == "" || user.RefreshToken != oldToken {
			return errs.NewAuthError("Invalid refresh token")
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "refreshToken", Value: newToken},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
	if err != nil {
		switch err.(type) {
		case *errs.AuthError:
			return err
		default:
			return errs.NewDatabaseError("update", "failed to rotate refresh token", err)
		}
	}
	return nil
}
