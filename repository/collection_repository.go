package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"kardly-server/models"
)

// CollectionRepository handles database operations for user_collections
type CollectionRepository struct {
	db *sql.DB
}

// NewCollectionRepository creates a new CollectionRepository
func NewCollectionRepository(db *sql.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// Ensure CollectionRepository implements CollectionRepositoryInterface
var _ CollectionRepositoryInterface = (*CollectionRepository)(nil)

// Toggle flips one collection flag for the user's card and returns the new value.
// A missing entry is created with the flag set, in a single statement.
func (r *CollectionRepository) Toggle(ctx context.Context, userID, photocardID uuid.UUID, flag models.CollectionFlag) (bool, error) {
	switch flag {
	case models.CollectionOwned, models.CollectionWishlisted:
	default:
		return false, Error.New("unknown collection flag %q", flag)
	}

	// flag is one of two fixed column names, never user input
	query := fmt.Sprintf(`
		INSERT INTO user_collections (user_id, photocard_id, %[1]s)
		VALUES ($1, $2, true)
		ON CONFLICT (user_id, photocard_id)
		DO UPDATE SET %[1]s = NOT user_collections.%[1]s, updated_at = CURRENT_TIMESTAMP
		RETURNING %[1]s
	`, flag)

	var value bool
	if err := r.db.QueryRowContext(ctx, query, userID, photocardID).Scan(&value); err != nil {
		return false, Error.New("failed to toggle %s: %w", flag, err)
	}
	return value, nil
}
