package service

import (
	"context"
	"io"
	"time"

	"kardly-server/models"
)

// AssetStore defines the contract for the remote image store.
// Delete must treat an unknown or already deleted handle as success.
type AssetStore interface {
	Upload(ctx context.Context, body io.Reader, name, contentType string) (*models.RemoteAsset, error)
	Delete(ctx context.Context, handle string) error
}

// AssetLister enumerates remote assets created before a cutoff
type AssetLister interface {
	List(ctx context.Context, createdBefore time.Time) ([]models.RemoteObject, error)
}
