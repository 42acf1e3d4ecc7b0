package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/datastore"
)

// NewDatastoreClient connects to the record store for the given project.
// Credentials resolve through the standard application-default chain; the
// emulator is picked up automatically via DATASTORE_EMULATOR_HOST.
func NewDatastoreClient(ctx context.Context, projectID string) (*datastore.Client, error) {
	client, err := datastore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create datastore client: %w", err)
	}
	return client, nil
}
