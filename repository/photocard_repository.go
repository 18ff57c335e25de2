package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kardly-server/models"
)

// PhotocardRepository handles database operations for photocards
// Implements PhotocardRepositoryInterface
type PhotocardRepository struct {
	db  *sql.DB
	log *zap.Logger
}

// NewPhotocardRepository creates a new PhotocardRepository
func NewPhotocardRepository(log *zap.Logger, db *sql.DB) *PhotocardRepository {
	return &PhotocardRepository{db: db, log: log}
}

// Ensure PhotocardRepository implements PhotocardRepositoryInterface
var _ PhotocardRepositoryInterface = (*PhotocardRepository)(nil)

// GetGroupRef looks up a group outside of any transaction
func (r *PhotocardRepository) GetGroupRef(ctx context.Context, id uuid.UUID) (*models.GroupRef, error) {
	return getGroupRef(ctx, r.db, id, noLock)
}

// GetMemberRef looks up a member outside of any transaction
func (r *PhotocardRepository) GetMemberRef(ctx context.Context, id uuid.UUID) (*models.MemberRef, error) {
	return getMemberRef(ctx, r.db, id, noLock)
}

// GetAlbumRef looks up an album outside of any transaction
func (r *PhotocardRepository) GetAlbumRef(ctx context.Context, id uuid.UUID) (*models.AlbumRef, error) {
	return getAlbumRef(ctx, r.db, id, noLock)
}

// BeginTx opens a transaction holding one pooled connection until Commit or Rollback
func (r *PhotocardRepository) BeginTx(ctx context.Context) (PhotocardTx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, Error.New("failed to start transaction: %w", err)
	}
	return &photocardTx{tx: tx}, nil
}

// GetByID retrieves a photocard by id
func (r *PhotocardRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Photocard, error) {
	query := `
		SELECT id, user_id, group_id, member_id, album_id, image_url, image_handle, created_at, updated_at
		FROM photocards
		WHERE id = $1
	`
	card, err := scanPhotocard(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, Error.New("failed to get photocard %s: %w", id, err)
	}
	return card, nil
}

// ExistsByImageHandle checks whether any photocard references the remote handle
func (r *PhotocardRepository) ExistsByImageHandle(ctx context.Context, handle string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM photocards WHERE image_handle = $1)`
	if err := r.db.QueryRowContext(ctx, query, handle).Scan(&exists); err != nil {
		return false, Error.New("failed to check existence: %w", err)
	}

	r.log.Debug("image handle existence checked", zap.String("handle", handle), zap.Bool("exists", exists))
	return exists, nil
}

type photocardTx struct {
	tx *sql.Tx
}

func (t *photocardTx) GetGroupRef(ctx context.Context, id uuid.UUID) (*models.GroupRef, error) {
	return getGroupRef(ctx, t.tx, id, keyShare)
}

func (t *photocardTx) GetMemberRef(ctx context.Context, id uuid.UUID) (*models.MemberRef, error) {
	return getMemberRef(ctx, t.tx, id, keyShare)
}

func (t *photocardTx) GetAlbumRef(ctx context.Context, id uuid.UUID) (*models.AlbumRef, error) {
	return getAlbumRef(ctx, t.tx, id, keyShare)
}

// InsertPhotocard writes the card row. Constraint violations are returned
// wrapped so IsUniqueViolation and IsForeignKeyViolation still see them.
func (t *photocardTx) InsertPhotocard(ctx context.Context, card *models.PhotocardDB) (*models.Photocard, error) {
	query := `
		INSERT INTO photocards (user_id, group_id, member_id, album_id, image_url, image_handle)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, group_id, member_id, album_id, image_url, image_handle, created_at, updated_at
	`
	row := t.tx.QueryRowContext(ctx, query,
		card.UserID,
		card.GroupID,
		card.MemberID,
		card.AlbumID,
		card.ImageURL,
		card.ImageHandle,
	)
	inserted, err := scanPhotocard(row)
	if err != nil {
		return nil, Error.New("failed to insert photocard: %w", err)
	}
	return inserted, nil
}

func (t *photocardTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return Error.New("failed to commit transaction: %w", err)
	}
	return nil
}

func (t *photocardTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return nil
		}
		return Error.New("failed to roll back transaction: %w", err)
	}
	return nil
}

func scanPhotocard(row *sql.Row) (*models.Photocard, error) {
	var (
		card                               models.Photocard
		userID, groupID, memberID, albumID uuid.NullUUID
	)
	err := row.Scan(
		&card.ID,
		&userID,
		&groupID,
		&memberID,
		&albumID,
		&card.ImageURL,
		&card.ImageHandle,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	card.UserID = nullableUUID(userID)
	card.GroupID = nullableUUID(groupID)
	card.MemberID = nullableUUID(memberID)
	card.AlbumID = nullableUUID(albumID)
	return &card, nil
}

func nullableUUID(v uuid.NullUUID) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	id := v.UUID
	return &id
}
