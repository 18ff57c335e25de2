package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kardly-server/models"
	"kardly-server/repository"
)

const (
	maxNameLength  = 100
	maxTitleLength = 200
)

// CatalogService handles find-or-create of groups, members and albums.
// Implements CatalogServiceInterface
type CatalogService struct {
	log  *zap.Logger
	repo repository.CatalogRepositoryInterface
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(log *zap.Logger, repo repository.CatalogRepositoryInterface) *CatalogService {
	return &CatalogService{log: log, repo: repo}
}

// Ensure CatalogService implements CatalogServiceInterface
var _ CatalogServiceInterface = (*CatalogService)(nil)

// CreateGroup returns the group with this name, creating it if needed.
// The boolean is true when the group already existed.
func (s *CatalogService) CreateGroup(ctx context.Context, req models.CreateGroupRequest) (*models.Group, bool, error) {
	name, err := boundedText(req.Name, maxNameLength, "Invalid group data")
	if err != nil {
		return nil, false, err
	}
	imageURL, err := optionalURL(req.ImageURL, "Invalid group data")
	if err != nil {
		return nil, false, err
	}

	return findOrCreate(ctx, s.log.With(zap.String("group", name)),
		func() (*models.Group, error) { return s.repo.FindGroupByName(ctx, name) },
		func() (*models.Group, error) { return s.repo.InsertGroup(ctx, name, imageURL) },
	)
}

// CreateMember returns the group's member with this name or stage name, creating it if needed
func (s *CatalogService) CreateMember(ctx context.Context, req models.CreateMemberRequest) (*models.Member, bool, error) {
	groupID, err := parseGroupID(req.GroupID, "Invalid member data")
	if err != nil {
		return nil, false, err
	}
	name, err := boundedText(req.Name, maxNameLength, "Invalid member data")
	if err != nil {
		return nil, false, err
	}
	stageName, err := optionalText(req.StageName, maxNameLength, "Invalid member data")
	if err != nil {
		return nil, false, err
	}
	imageURL, err := optionalURL(req.ImageURL, "Invalid member data")
	if err != nil {
		return nil, false, err
	}
	if err := s.requireGroup(ctx, groupID); err != nil {
		return nil, false, err
	}

	matchStage := name
	if stageName != nil {
		matchStage = *stageName
	}

	return findOrCreate(ctx, s.log.With(zap.Stringer("group_id", groupID), zap.String("member", name)),
		func() (*models.Member, error) { return s.repo.FindMember(ctx, groupID, name, matchStage) },
		func() (*models.Member, error) { return s.repo.InsertMember(ctx, groupID, name, stageName, imageURL) },
	)
}

// CreateAlbum returns the group's album with this title, creating it if needed
func (s *CatalogService) CreateAlbum(ctx context.Context, req models.CreateAlbumRequest) (*models.Album, bool, error) {
	groupID, err := parseGroupID(req.GroupID, "Invalid album data")
	if err != nil {
		return nil, false, err
	}
	title, err := boundedText(req.Title, maxTitleLength, "Invalid album data")
	if err != nil {
		return nil, false, err
	}
	coverURL, err := optionalURL(req.CoverImageURL, "Invalid album data")
	if err != nil {
		return nil, false, err
	}
	if err := s.requireGroup(ctx, groupID); err != nil {
		return nil, false, err
	}

	return findOrCreate(ctx, s.log.With(zap.Stringer("group_id", groupID), zap.String("album", title)),
		func() (*models.Album, error) { return s.repo.FindAlbumByTitle(ctx, groupID, title) },
		func() (*models.Album, error) { return s.repo.InsertAlbum(ctx, groupID, title, coverURL) },
	)
}

func (s *CatalogService) requireGroup(ctx context.Context, groupID uuid.UUID) error {
	if _, err := s.repo.GetGroupRef(ctx, groupID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ValidationError.Wrap(ErrInvalidGroup)
		}
		return err
	}
	return nil
}

func parseGroupID(raw, invalidMsg string) (uuid.UUID, error) {
	groupID, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, NewInputError(invalidMsg)
	}
	return groupID, nil
}

// findOrCreate looks the row up and inserts it when absent. Losing an insert
// race to a concurrent request is not an error: the winner's row is re-read
// and reported as already existing.
func findOrCreate[T any](ctx context.Context, log *zap.Logger, find, insert func() (*T, error)) (*T, bool, error) {
	found, err := find()
	if err == nil {
		return found, true, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	created, err := insert()
	if err == nil {
		return created, false, nil
	}
	// members and albums only reference their group
	if repository.IsForeignKeyViolation(err) {
		return nil, false, ValidationError.Wrap(ErrInvalidGroup)
	}
	if !repository.IsUniqueViolation(err) {
		return nil, false, err
	}

	log.Debug("lost insert race, re-reading existing row")
	found, err = find()
	if err != nil {
		return nil, false, err
	}
	return found, true, nil
}

func boundedText(raw string, max int, invalidMsg string) (string, error) {
	s := strings.TrimSpace(raw)
	if n := utf8.RuneCountInString(s); n == 0 || n > max {
		return "", NewInputError(invalidMsg)
	}
	return s, nil
}

func optionalText(raw *string, max int, invalidMsg string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(s) > max {
		return nil, NewInputError(invalidMsg)
	}
	return &s, nil
}

func optionalURL(raw *string, invalidMsg string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	s := strings.TrimSpace(*raw)
	u, err := url.ParseRequestURI(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, NewInputError(invalidMsg)
	}
	return &s, nil
}
