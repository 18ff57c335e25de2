package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kardly-server/models"
	"kardly-server/repository"
)

// CollectionService handles the per-user owned and wishlist flags.
// Implements CollectionServiceInterface
type CollectionService struct {
	log        *zap.Logger
	photocards repository.PhotocardRepositoryInterface
	repo       repository.CollectionRepositoryInterface
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(log *zap.Logger, photocards repository.PhotocardRepositoryInterface, repo repository.CollectionRepositoryInterface) *CollectionService {
	return &CollectionService{log: log, photocards: photocards, repo: repo}
}

// Ensure CollectionService implements CollectionServiceInterface
var _ CollectionServiceInterface = (*CollectionService)(nil)

// Toggle flips flag on the user's collection entry for a card the user owns
func (s *CollectionService) Toggle(ctx context.Context, userID uuid.UUID, photocardID string, flag models.CollectionFlag) (*models.CollectionStatus, error) {
	cardID, err := uuid.Parse(strings.TrimSpace(photocardID))
	if err != nil {
		return nil, NewInputError("photocard_id must be a valid UUID")
	}

	card, err := s.photocards.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPhotocardNotFound
		}
		return nil, err
	}
	if card.UserID == nil || *card.UserID != userID {
		return nil, ErrNotCardOwner
	}

	value, err := s.repo.Toggle(ctx, userID, cardID, flag)
	if err != nil {
		return nil, err
	}

	s.log.Debug("collection toggled",
		zap.Stringer("user_id", userID),
		zap.Stringer("photocard_id", cardID),
		zap.String("flag", string(flag)),
		zap.Bool("value", value),
	)
	return &models.CollectionStatus{PhotocardID: cardID, Flag: flag, Value: value}, nil
}
