package models

import "github.com/google/uuid"

// CardReferences holds the optional catalog references of a card.
// A nil field means the reference was not provided.
type CardReferences struct {
	GroupID  *uuid.UUID
	MemberID *uuid.UUID
	AlbumID  *uuid.UUID
}

// GroupRef is the minimal view of a group needed for reference checks
type GroupRef struct {
	ID uuid.UUID
}

// MemberRef is the minimal view of a member needed for reference checks
type MemberRef struct {
	ID      uuid.UUID
	GroupID uuid.UUID
}

// AlbumRef is the minimal view of an album needed for reference checks
type AlbumRef struct {
	ID      uuid.UUID
	GroupID uuid.UUID
}
