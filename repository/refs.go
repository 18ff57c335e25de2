package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"kardly-server/models"
)

// rowLock is appended to reference lookups. Inside a transaction the referenced
// row is share-locked so it cannot be deleted before the insert commits.
type rowLock string

const (
	noLock   rowLock = ""
	keyShare rowLock = " FOR KEY SHARE"
)

func getGroupRef(ctx context.Context, q querier, id uuid.UUID, lock rowLock) (*models.GroupRef, error) {
	ref := &models.GroupRef{}
	err := q.QueryRowContext(ctx, `SELECT id FROM kpop_groups WHERE id = $1`+string(lock), id).Scan(&ref.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, Error.New("failed to look up group %s: %w", id, err)
	}
	return ref, nil
}

func getMemberRef(ctx context.Context, q querier, id uuid.UUID, lock rowLock) (*models.MemberRef, error) {
	ref := &models.MemberRef{}
	err := q.QueryRowContext(ctx, `SELECT id, group_id FROM group_members WHERE id = $1`+string(lock), id).Scan(&ref.ID, &ref.GroupID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, Error.New("failed to look up member %s: %w", id, err)
	}
	return ref, nil
}

func getAlbumRef(ctx context.Context, q querier, id uuid.UUID, lock rowLock) (*models.AlbumRef, error) {
	ref := &models.AlbumRef{}
	err := q.QueryRowContext(ctx, `SELECT id, group_id FROM albums WHERE id = $1`+string(lock), id).Scan(&ref.ID, &ref.GroupID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, Error.New("failed to look up album %s: %w", id, err)
	}
	return ref, nil
}
