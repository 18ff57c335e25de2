package models

import "github.com/google/uuid"

// CollectionFlag names one of the per-user status columns of user_collections
type CollectionFlag string

const (
	CollectionOwned      CollectionFlag = "is_owned"
	CollectionWishlisted CollectionFlag = "is_wishlisted"
)

// ToggleCollectionRequest represents the request body for the collection toggle endpoints
type ToggleCollectionRequest struct {
	PhotocardID string `json:"photocard_id"`
}

// CollectionStatus is the state of one flag after a toggle
type CollectionStatus struct {
	PhotocardID uuid.UUID
	Flag        CollectionFlag
	Value       bool
}
