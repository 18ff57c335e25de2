// Package repotest provides an in-memory stand-in for the Postgres
// repositories. Constraint failures are reported as *pgconn.PgError with the
// same codes Postgres uses, so callers classify them exactly as in production.
package repotest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"kardly-server/models"
	"kardly-server/repository"
)

// UniqueViolation returns the error Postgres reports for a duplicate key
func UniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint, Message: "duplicate key value violates unique constraint"}
}

// ForeignKeyViolation returns the error Postgres reports for a missing referenced row
func ForeignKeyViolation(constraint string) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: constraint, Message: "insert violates foreign key constraint"}
}

type collectionKey struct {
	user, card uuid.UUID
}

// Store implements the photocard, catalog and collection repositories in memory.
// Exported error fields and hooks let tests fail or interleave single steps.
type Store struct {
	mu sync.Mutex

	groups      map[uuid.UUID]models.Group
	members     map[uuid.UUID]models.Member
	albums      map[uuid.UUID]models.Album
	photocards  map[uuid.UUID]models.Photocard
	collections map[collectionKey]map[models.CollectionFlag]bool

	// LookupErr fails every reference lookup
	LookupErr error
	// BeginErr fails BeginTx
	BeginErr error
	// InsertErr fails InsertPhotocard
	InsertErr error
	// CommitErr fails Commit; the transaction is closed anyway, as with database/sql
	CommitErr error

	// BeforeBegin runs at the start of BeginTx, after any pooled pre-check
	BeforeBegin func()
	// BeforeCatalogInsert runs before each group, member or album insert
	BeforeCatalogInsert func()

	begun      int
	committed  int
	rolledBack int
	closed     int
	inserts    int
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		groups:      map[uuid.UUID]models.Group{},
		members:     map[uuid.UUID]models.Member{},
		albums:      map[uuid.UUID]models.Album{},
		photocards:  map[uuid.UUID]models.Photocard{},
		collections: map[collectionKey]map[models.CollectionFlag]bool{},
	}
}

var (
	_ repository.PhotocardRepositoryInterface  = (*Store)(nil)
	_ repository.CatalogRepositoryInterface    = (*Store)(nil)
	_ repository.CollectionRepositoryInterface = (*Store)(nil)
)

// AddGroup seeds a group and returns its id
func (s *Store) AddGroup(name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := models.Group{ID: uuid.New(), Name: name, IsActive: true, CreatedAt: time.Now()}
	s.groups[g.ID] = g
	return g.ID
}

// AddMember seeds a member of groupID and returns its id
func (s *Store) AddMember(groupID uuid.UUID, name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := models.Member{ID: uuid.New(), GroupID: groupID, Name: name, IsActive: true, CreatedAt: time.Now()}
	s.members[m.ID] = m
	return m.ID
}

// AddAlbum seeds an album of groupID and returns its id
func (s *Store) AddAlbum(groupID uuid.UUID, title string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := models.Album{ID: uuid.New(), GroupID: groupID, Title: title, CreatedAt: time.Now()}
	s.albums[a.ID] = a
	return a.ID
}

// AddPhotocard seeds a committed photocard and returns its id
func (s *Store) AddPhotocard(owner *uuid.UUID, handle string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	card := models.Photocard{ID: uuid.New(), UserID: owner, ImageURL: "https://example.test/" + handle, ImageHandle: handle, CreatedAt: now, UpdatedAt: now}
	s.photocards[card.ID] = card
	return card.ID
}

// DeleteGroup removes a group, as a concurrent request would
func (s *Store) DeleteGroup(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.groups, id)
}

// Photocards returns the committed photocards
func (s *Store) Photocards() []models.Photocard {
	s.mu.Lock()
	defer s.mu.Unlock()
	cards := make([]models.Photocard, 0, len(s.photocards))
	for _, c := range s.photocards {
		cards = append(cards, c)
	}
	return cards
}

// TxStats reports how many transactions were opened, committed, rolled back and closed
func (s *Store) TxStats() (begun, committed, rolledBack, closed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begun, s.committed, s.rolledBack, s.closed
}

// Inserts reports how many photocard inserts were attempted
func (s *Store) Inserts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inserts
}

// GroupCount reports how many groups exist
func (s *Store) GroupCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.groups)
}

// GetGroupRef implements repository.ReferenceReader
func (s *Store) GetGroupRef(ctx context.Context, id uuid.UUID) (*models.GroupRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LookupErr != nil {
		return nil, s.LookupErr
	}
	if _, ok := s.groups[id]; !ok {
		return nil, repository.ErrNotFound
	}
	return &models.GroupRef{ID: id}, nil
}

// GetMemberRef implements repository.ReferenceReader
func (s *Store) GetMemberRef(ctx context.Context, id uuid.UUID) (*models.MemberRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LookupErr != nil {
		return nil, s.LookupErr
	}
	m, ok := s.members[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &models.MemberRef{ID: id, GroupID: m.GroupID}, nil
}

// GetAlbumRef implements repository.ReferenceReader
func (s *Store) GetAlbumRef(ctx context.Context, id uuid.UUID) (*models.AlbumRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LookupErr != nil {
		return nil, s.LookupErr
	}
	a, ok := s.albums[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &models.AlbumRef{ID: id, GroupID: a.GroupID}, nil
}

// BeginTx implements repository.PhotocardRepositoryInterface
func (s *Store) BeginTx(ctx context.Context) (repository.PhotocardTx, error) {
	if s.BeforeBegin != nil {
		s.BeforeBegin()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.BeginErr != nil {
		return nil, s.BeginErr
	}
	s.begun++
	return &tx{store: s}, nil
}

// GetByID implements repository.PhotocardRepositoryInterface
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*models.Photocard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.photocards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &card, nil
}

// ExistsByImageHandle implements repository.PhotocardRepositoryInterface
func (s *Store) ExistsByImageHandle(ctx context.Context, handle string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LookupErr != nil {
		return false, s.LookupErr
	}
	for _, c := range s.photocards {
		if c.ImageHandle == handle {
			return true, nil
		}
	}
	return false, nil
}

// tx buffers one pending insert until Commit
type tx struct {
	store   *Store
	pending []models.Photocard
	done    bool
}

func (t *tx) GetGroupRef(ctx context.Context, id uuid.UUID) (*models.GroupRef, error) {
	return t.store.GetGroupRef(ctx, id)
}

func (t *tx) GetMemberRef(ctx context.Context, id uuid.UUID) (*models.MemberRef, error) {
	return t.store.GetMemberRef(ctx, id)
}

func (t *tx) GetAlbumRef(ctx context.Context, id uuid.UUID) (*models.AlbumRef, error) {
	return t.store.GetAlbumRef(ctx, id)
}

func (t *tx) InsertPhotocard(ctx context.Context, card *models.PhotocardDB) (*models.Photocard, error) {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inserts++
	if s.InsertErr != nil {
		return nil, s.InsertErr
	}
	if card.GroupID != nil {
		if _, ok := s.groups[*card.GroupID]; !ok {
			return nil, ForeignKeyViolation("photocards_group_id_fkey")
		}
	}
	if card.MemberID != nil {
		if _, ok := s.members[*card.MemberID]; !ok {
			return nil, ForeignKeyViolation("photocards_member_id_fkey")
		}
	}
	if card.AlbumID != nil {
		if _, ok := s.albums[*card.AlbumID]; !ok {
			return nil, ForeignKeyViolation("photocards_album_id_fkey")
		}
	}
	for _, c := range s.photocards {
		if c.ImageHandle == card.ImageHandle {
			return nil, UniqueViolation("photocards_image_handle_key")
		}
	}

	now := time.Now()
	row := models.Photocard{
		ID:          uuid.New(),
		UserID:      card.UserID,
		GroupID:     card.GroupID,
		MemberID:    card.MemberID,
		AlbumID:     card.AlbumID,
		ImageURL:    card.ImageURL,
		ImageHandle: card.ImageHandle,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	t.pending = append(t.pending, row)
	return &row, nil
}

func (t *tx) Commit() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.done {
		return repository.Error.New("transaction already closed")
	}
	t.done = true
	s.closed++
	if s.CommitErr != nil {
		return s.CommitErr
	}
	for _, c := range t.pending {
		s.photocards[c.ID] = c
	}
	s.committed++
	return nil
}

// Rollback after Commit is a no-op, matching the repository's handling of sql.ErrTxDone
func (t *tx) Rollback() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.done {
		return nil
	}
	t.done = true
	t.pending = nil
	s.closed++
	s.rolledBack++
	return nil
}

// FindGroupByName implements repository.CatalogRepositoryInterface
func (s *Store) FindGroupByName(ctx context.Context, name string) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.groups {
		if strings.EqualFold(g.Name, name) {
			return &g, nil
		}
	}
	return nil, repository.ErrNotFound
}

// InsertGroup implements repository.CatalogRepositoryInterface
func (s *Store) InsertGroup(ctx context.Context, name string, imageURL *string) (*models.Group, error) {
	if s.BeforeCatalogInsert != nil {
		s.BeforeCatalogInsert()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.groups {
		if strings.EqualFold(g.Name, name) {
			return nil, UniqueViolation("kpop_groups_name_lower_idx")
		}
	}
	g := models.Group{ID: uuid.New(), Name: name, ImageURL: imageURL, IsActive: true, CreatedAt: time.Now()}
	s.groups[g.ID] = g
	return &g, nil
}

// FindMember implements repository.CatalogRepositoryInterface
func (s *Store) FindMember(ctx context.Context, groupID uuid.UUID, name, stageName string) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.GroupID != groupID {
			continue
		}
		if strings.EqualFold(m.Name, name) || (m.StageName != nil && strings.EqualFold(*m.StageName, stageName)) {
			return &m, nil
		}
	}
	return nil, repository.ErrNotFound
}

// InsertMember implements repository.CatalogRepositoryInterface
func (s *Store) InsertMember(ctx context.Context, groupID uuid.UUID, name string, stageName, imageURL *string) (*models.Member, error) {
	if s.BeforeCatalogInsert != nil {
		s.BeforeCatalogInsert()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[groupID]; !ok {
		return nil, ForeignKeyViolation("group_members_group_id_fkey")
	}
	for _, m := range s.members {
		if m.GroupID == groupID && strings.EqualFold(m.Name, name) {
			return nil, UniqueViolation("group_members_group_name_lower_idx")
		}
	}
	m := models.Member{ID: uuid.New(), GroupID: groupID, Name: name, StageName: stageName, ImageURL: imageURL, IsActive: true, CreatedAt: time.Now()}
	s.members[m.ID] = m
	return &m, nil
}

// FindAlbumByTitle implements repository.CatalogRepositoryInterface
func (s *Store) FindAlbumByTitle(ctx context.Context, groupID uuid.UUID, title string) (*models.Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.albums {
		if a.GroupID == groupID && strings.EqualFold(a.Title, title) {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

// InsertAlbum implements repository.CatalogRepositoryInterface
func (s *Store) InsertAlbum(ctx context.Context, groupID uuid.UUID, title string, coverImageURL *string) (*models.Album, error) {
	if s.BeforeCatalogInsert != nil {
		s.BeforeCatalogInsert()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[groupID]; !ok {
		return nil, ForeignKeyViolation("albums_group_id_fkey")
	}
	for _, a := range s.albums {
		if a.GroupID == groupID && strings.EqualFold(a.Title, title) {
			return nil, UniqueViolation("albums_group_title_lower_idx")
		}
	}
	a := models.Album{ID: uuid.New(), GroupID: groupID, Title: title, CoverImageURL: coverImageURL, CreatedAt: time.Now()}
	s.albums[a.ID] = a
	return &a, nil
}

// Toggle implements repository.CollectionRepositoryInterface
func (s *Store) Toggle(ctx context.Context, userID, photocardID uuid.UUID, flag models.CollectionFlag) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.photocards[photocardID]; !ok {
		return false, ForeignKeyViolation("user_collections_photocard_id_fkey")
	}
	key := collectionKey{user: userID, card: photocardID}
	entry, ok := s.collections[key]
	if !ok {
		entry = map[models.CollectionFlag]bool{}
		s.collections[key] = entry
	}
	entry[flag] = !entry[flag]
	return entry[flag], nil
}
