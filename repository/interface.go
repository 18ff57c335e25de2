package repository

import (
	"context"

	"github.com/google/uuid"

	"kardly-server/models"
)

// ReferenceReader resolves the catalog references a photocard may point at.
// Missing rows are reported as ErrNotFound.
type ReferenceReader interface {
	GetGroupRef(ctx context.Context, id uuid.UUID) (*models.GroupRef, error)
	GetMemberRef(ctx context.Context, id uuid.UUID) (*models.MemberRef, error)
	GetAlbumRef(ctx context.Context, id uuid.UUID) (*models.AlbumRef, error)
}

// PhotocardTx is one open transaction against the photocard store.
// Commit and Rollback each close the transaction and hand the connection back to the pool.
type PhotocardTx interface {
	ReferenceReader
	InsertPhotocard(ctx context.Context, card *models.PhotocardDB) (*models.Photocard, error)
	Commit() error
	Rollback() error
}

// PhotocardRepositoryInterface defines the contract for photocard persistence
type PhotocardRepositoryInterface interface {
	ReferenceReader
	BeginTx(ctx context.Context) (PhotocardTx, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Photocard, error)
	ExistsByImageHandle(ctx context.Context, handle string) (bool, error)
}

// CatalogRepositoryInterface defines the contract for groups, members and albums
type CatalogRepositoryInterface interface {
	GetGroupRef(ctx context.Context, id uuid.UUID) (*models.GroupRef, error)
	FindGroupByName(ctx context.Context, name string) (*models.Group, error)
	InsertGroup(ctx context.Context, name string, imageURL *string) (*models.Group, error)
	FindMember(ctx context.Context, groupID uuid.UUID, name, stageName string) (*models.Member, error)
	InsertMember(ctx context.Context, groupID uuid.UUID, name string, stageName, imageURL *string) (*models.Member, error)
	FindAlbumByTitle(ctx context.Context, groupID uuid.UUID, title string) (*models.Album, error)
	InsertAlbum(ctx context.Context, groupID uuid.UUID, title string, coverImageURL *string) (*models.Album, error)
}

// CollectionRepositoryInterface defines the contract for the per-user collection overlay
type CollectionRepositoryInterface interface {
	Toggle(ctx context.Context, userID, photocardID uuid.UUID, flag models.CollectionFlag) (bool, error)
}
