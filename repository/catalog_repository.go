package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kardly-server/models"
)

// CatalogRepository handles database operations for groups, members and albums
type CatalogRepository struct {
	db  *sql.DB
	log *zap.Logger
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(log *zap.Logger, db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db, log: log}
}

// Ensure CatalogRepository implements CatalogRepositoryInterface
var _ CatalogRepositoryInterface = (*CatalogRepository)(nil)

// GetGroupRef checks that a group exists
func (r *CatalogRepository) GetGroupRef(ctx context.Context, id uuid.UUID) (*models.GroupRef, error) {
	return getGroupRef(ctx, r.db, id, noLock)
}

// FindGroupByName finds a group by case-insensitive name
func (r *CatalogRepository) FindGroupByName(ctx context.Context, name string) (*models.Group, error) {
	query := `
		SELECT id, name, image_url, is_active, created_at
		FROM kpop_groups
		WHERE LOWER(name) = LOWER($1)
	`
	var g models.Group
	err := r.db.QueryRowContext(ctx, query, name).Scan(&g.ID, &g.Name, &g.ImageURL, &g.IsActive, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, Error.New("failed to find group %q: %w", name, err)
	}
	return &g, nil
}

// InsertGroup creates a new active group.
// A concurrent insert of the same name surfaces as a unique violation.
func (r *CatalogRepository) InsertGroup(ctx context.Context, name string, imageURL *string) (*models.Group, error) {
	query := `
		INSERT INTO kpop_groups (name, image_url, is_active)
		VALUES ($1, $2, true)
		RETURNING id, name, image_url, is_active, created_at
	`
	var g models.Group
	err := r.db.QueryRowContext(ctx, query, name, imageURL).Scan(&g.ID, &g.Name, &g.ImageURL, &g.IsActive, &g.CreatedAt)
	if err != nil {
		return nil, Error.New("failed to insert group %q: %w", name, err)
	}

	r.log.Info("group created", zap.Stringer("group_id", g.ID), zap.String("name", g.Name))
	return &g, nil
}

// FindMember finds a member of the group whose name or stage name matches, ignoring case
func (r *CatalogRepository) FindMember(ctx context.Context, groupID uuid.UUID, name, stageName string) (*models.Member, error) {
	query := `
		SELECT id, group_id, name, stage_name, image_url, is_active, created_at
		FROM group_members
		WHERE group_id = $1 AND (LOWER(name) = LOWER($2) OR LOWER(stage_name) = LOWER($3))
		ORDER BY created_at ASC
		LIMIT 1
	`
	var m models.Member
	err := r.db.QueryRowContext(ctx, query, groupID, name, stageName).
		Scan(&m.ID, &m.GroupID, &m.Name, &m.StageName, &m.ImageURL, &m.IsActive, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, Error.New("failed to find member %q: %w", name, err)
	}
	return &m, nil
}

// InsertMember creates a new active member in the group
func (r *CatalogRepository) InsertMember(ctx context.Context, groupID uuid.UUID, name string, stageName, imageURL *string) (*models.Member, error) {
	query := `
		INSERT INTO group_members (group_id, name, stage_name, image_url, is_active)
		VALUES ($1, $2, $3, $4, true)
		RETURNING id, group_id, name, stage_name, image_url, is_active, created_at
	`
	var m models.Member
	err := r.db.QueryRowContext(ctx, query, groupID, name, stageName, imageURL).
		Scan(&m.ID, &m.GroupID, &m.Name, &m.StageName, &m.ImageURL, &m.IsActive, &m.CreatedAt)
	if err != nil {
		return nil, Error.New("failed to insert member %q: %w", name, err)
	}

	r.log.Info("member created", zap.Stringer("member_id", m.ID), zap.Stringer("group_id", groupID))
	return &m, nil
}

// FindAlbumByTitle finds an album of the group by case-insensitive title
func (r *CatalogRepository) FindAlbumByTitle(ctx context.Context, groupID uuid.UUID, title string) (*models.Album, error) {
	query := `
		SELECT id, group_id, title, cover_image_url, created_at
		FROM albums
		WHERE group_id = $1 AND LOWER(title) = LOWER($2)
	`
	var a models.Album
	err := r.db.QueryRowContext(ctx, query, groupID, title).
		Scan(&a.ID, &a.GroupID, &a.Title, &a.CoverImageURL, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, Error.New("failed to find album %q: %w", title, err)
	}
	return &a, nil
}

// InsertAlbum creates a new album for the group
func (r *CatalogRepository) InsertAlbum(ctx context.Context, groupID uuid.UUID, title string, coverImageURL *string) (*models.Album, error) {
	query := `
		INSERT INTO albums (group_id, title, cover_image_url)
		VALUES ($1, $2, $3)
		RETURNING id, group_id, title, cover_image_url, created_at
	`
	var a models.Album
	err := r.db.QueryRowContext(ctx, query, groupID, title, coverImageURL).
		Scan(&a.ID, &a.GroupID, &a.Title, &a.CoverImageURL, &a.CreatedAt)
	if err != nil {
		return nil, Error.New("failed to insert album %q: %w", title, err)
	}

	r.log.Info("album created", zap.Stringer("album_id", a.ID), zap.Stringer("group_id", groupID))
	return &a, nil
}
