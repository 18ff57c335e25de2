package models

import (
	"time"

	"github.com/google/uuid"
)

// Photocard represents a persisted card record
type Photocard struct {
	ID          uuid.UUID  `json:"id"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	GroupID     *uuid.UUID `json:"group_id,omitempty"`
	MemberID    *uuid.UUID `json:"member_id,omitempty"`
	AlbumID     *uuid.UUID `json:"album_id,omitempty"`
	ImageURL    string     `json:"image_url"`
	ImageHandle string     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PhotocardDB holds the values written by a photocard insert
type PhotocardDB struct {
	UserID      *uuid.UUID
	GroupID     *uuid.UUID
	MemberID    *uuid.UUID
	AlbumID     *uuid.UUID
	ImageURL    string
	ImageHandle string
}

// PhotocardCreated is returned to the caller after a successful add
type PhotocardCreated struct {
	PhotocardID uuid.UUID `json:"photocard_id"`
	ImageURL    string    `json:"image_url"`
}
