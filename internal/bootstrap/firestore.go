package bootstrap

import (
	"context"

	"cloud.google.com/go/firestore"
)

// InitFirestore connects to the project's Firestore database. With
// FIRESTORE_EMULATOR_HOST set the client talks to the emulator instead.
func InitFirestore(ctx context.Context, projectID string) (*firestore.Client, error) {
	return firestore.NewClient(ctx, projectID)
}
