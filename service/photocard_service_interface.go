package service

import (
	"context"

	"github.com/google/uuid"

	"kardly-server/models"
)

// PhotocardServiceInterface defines the contract for adding asset-backed photocards
type PhotocardServiceInterface interface {
	Create(ctx context.Context, intent models.UploadIntent) (*models.PhotocardCreated, error)
}

// CatalogServiceInterface defines the find-or-create operations for catalog entities.
// The boolean result reports whether the entity already existed.
type CatalogServiceInterface interface {
	CreateGroup(ctx context.Context, req models.CreateGroupRequest) (*models.Group, bool, error)
	CreateMember(ctx context.Context, req models.CreateMemberRequest) (*models.Member, bool, error)
	CreateAlbum(ctx context.Context, req models.CreateAlbumRequest) (*models.Album, bool, error)
}

// CollectionServiceInterface defines the per-user collection toggles
type CollectionServiceInterface interface {
	Toggle(ctx context.Context, userID uuid.UUID, photocardID string, flag models.CollectionFlag) (*models.CollectionStatus, error)
}
