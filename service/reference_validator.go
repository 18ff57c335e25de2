package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"kardly-server/models"
	"kardly-server/repository"
)

// ReferenceValidator checks that the optional group, member and album of a
// card exist and agree with each other. It only reads.
type ReferenceValidator struct{}

// NewReferenceValidator creates a new ReferenceValidator
func NewReferenceValidator() *ReferenceValidator {
	return &ReferenceValidator{}
}

// Validate resolves every provided reference through reader. Pass the pooled
// repository for a pre-check and the open transaction right before the insert;
// a result obtained outside the transaction says nothing about the data inside it.
//
// Failures are ValidationError-classed and match one of ErrInvalidGroup,
// ErrInvalidMember, ErrInvalidAlbum, ErrMemberGroupMismatch or ErrAlbumGroupMismatch.
// Store failures are returned unclassified.
func (v *ReferenceValidator) Validate(ctx context.Context, reader repository.ReferenceReader, refs models.CardReferences) (models.CardReferences, error) {
	var out models.CardReferences

	if refs.GroupID != nil {
		group, err := reader.GetGroupRef(ctx, *refs.GroupID)
		if err != nil {
			return out, lookupFailure(err, ErrInvalidGroup)
		}
		out.GroupID = idPtr(group.ID)
	}

	if refs.MemberID != nil {
		member, err := reader.GetMemberRef(ctx, *refs.MemberID)
		if err != nil {
			return out, lookupFailure(err, ErrInvalidMember)
		}
		if out.GroupID != nil && member.GroupID != *out.GroupID {
			return out, ValidationError.Wrap(ErrMemberGroupMismatch)
		}
		out.MemberID = idPtr(member.ID)
	}

	if refs.AlbumID != nil {
		album, err := reader.GetAlbumRef(ctx, *refs.AlbumID)
		if err != nil {
			return out, lookupFailure(err, ErrInvalidAlbum)
		}
		if out.GroupID != nil && album.GroupID != *out.GroupID {
			return out, ValidationError.Wrap(ErrAlbumGroupMismatch)
		}
		out.AlbumID = idPtr(album.ID)
	}

	return out, nil
}

func lookupFailure(err, missing error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ValidationError.Wrap(missing)
	}
	return err
}

func idPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
