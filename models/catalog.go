package models

import (
	"time"

	"github.com/google/uuid"
)

// Group represents a K-pop group in the catalog
type Group struct {
	ID        uuid.UUID `json:"group_id"`
	Name      string    `json:"name"`
	ImageURL  *string   `json:"image_url"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Member represents a member of a group
type Member struct {
	ID        uuid.UUID `json:"member_id"`
	GroupID   uuid.UUID `json:"group_id"`
	Name      string    `json:"name"`
	StageName *string   `json:"stage_name"`
	ImageURL  *string   `json:"image_url"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Album represents an album released by a group
type Album struct {
	ID            uuid.UUID `json:"album_id"`
	GroupID       uuid.UUID `json:"group_id"`
	Title         string    `json:"title"`
	CoverImageURL *string   `json:"cover_image_url"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateGroupRequest represents the request body for POST /api/groups/create
type CreateGroupRequest struct {
	Name     string  `json:"name"`
	ImageURL *string `json:"image_url"`
}

// CreateMemberRequest represents the request body for POST /api/members/create
type CreateMemberRequest struct {
	GroupID   string  `json:"group_id"`
	Name      string  `json:"name"`
	StageName *string `json:"stage_name"`
	ImageURL  *string `json:"image_url"`
}

// CreateAlbumRequest represents the request body for POST /api/albums/create
type CreateAlbumRequest struct {
	GroupID       string  `json:"group_id"`
	Title         string  `json:"title"`
	CoverImageURL *string `json:"cover_image_url"`
}
