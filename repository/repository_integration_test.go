package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"

	"kardly-server/db"
	"kardly-server/models"
	"kardly-server/repository"
)

func startPostgres(ctx context.Context, t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skip postgres integration test in short mode")
	}

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_DB":       "kardly",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
			return fmt.Sprintf("postgres://postgres:postgres@%s:%s/kardly?sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("skip postgres integration test: cannot start container: %v", err)
	}
	t.Cleanup(func() {
		termCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = container.Terminate(termCtx)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	conn, err := db.Open(ctx, log, fmt.Sprintf("postgres://postgres:postgres@%s:%s/kardly?sslmode=disable", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.Migrate(ctx, log, conn))
	// migrations are re-runnable
	require.NoError(t, db.Migrate(ctx, log, conn))
	return conn
}

func insertUser(ctx context.Context, t *testing.T, conn *sql.DB, username string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := conn.QueryRowContext(ctx,
		`INSERT INTO users (email, username, password_hash) VALUES ($1, $2, 'x') RETURNING id`,
		username+"@example.test", username,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestRepositoriesIntegration(t *testing.T) {
	ctx := context.Background()
	conn := startPostgres(ctx, t)
	log := zaptest.NewLogger(t)

	catalog := repository.NewCatalogRepository(log, conn)
	photocards := repository.NewPhotocardRepository(log, conn)
	collections := repository.NewCollectionRepository(conn)

	group, err := catalog.InsertGroup(ctx, "BLACKPINK", nil)
	require.NoError(t, err)

	t.Run("catalog", func(t *testing.T) {
		found, err := catalog.FindGroupByName(ctx, "blackpink")
		require.NoError(t, err)
		assert.Equal(t, group.ID, found.ID)

		_, err = catalog.InsertGroup(ctx, "BlackPink", nil)
		require.Error(t, err)
		assert.True(t, repository.IsUniqueViolation(err))

		_, err = catalog.FindGroupByName(ctx, "Mamamoo")
		require.ErrorIs(t, err, repository.ErrNotFound)

		stage := "Lisa"
		member, err := catalog.InsertMember(ctx, group.ID, "Lalisa Manobal", &stage, nil)
		require.NoError(t, err)
		found2, err := catalog.FindMember(ctx, group.ID, "someone", "LISA")
		require.NoError(t, err)
		assert.Equal(t, member.ID, found2.ID)

		_, err = catalog.InsertMember(ctx, uuid.New(), "Nobody", nil, nil)
		require.Error(t, err)
		assert.True(t, repository.IsForeignKeyViolation(err))

		album, err := catalog.InsertAlbum(ctx, group.ID, "Born Pink", nil)
		require.NoError(t, err)
		found3, err := catalog.FindAlbumByTitle(ctx, group.ID, "born pink")
		require.NoError(t, err)
		assert.Equal(t, album.ID, found3.ID)

		ref, err := catalog.GetGroupRef(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, group.ID, ref.ID)
		_, err = catalog.GetGroupRef(ctx, uuid.New())
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("photocard transaction", func(t *testing.T) {
		owner := insertUser(ctx, t, conn, "rosie")
		member, err := catalog.InsertMember(ctx, group.ID, "Park Chaeyoung", nil, nil)
		require.NoError(t, err)

		tx, err := photocards.BeginTx(ctx)
		require.NoError(t, err)
		memberRef, err := tx.GetMemberRef(ctx, member.ID)
		require.NoError(t, err)
		assert.Equal(t, group.ID, memberRef.GroupID)

		card, err := tx.InsertPhotocard(ctx, &models.PhotocardDB{
			UserID:      &owner,
			GroupID:     &group.ID,
			MemberID:    &member.ID,
			ImageURL:    "https://drive.google.com/uc?id=h-commit",
			ImageHandle: "h-commit",
		})
		require.NoError(t, err)
		assert.Nil(t, card.AlbumID)

		exists, err := photocards.ExistsByImageHandle(ctx, "h-commit")
		require.NoError(t, err)
		assert.False(t, exists, "uncommitted rows are invisible")

		require.NoError(t, tx.Commit())
		require.NoError(t, tx.Rollback(), "rollback after commit is a no-op")

		stored, err := photocards.GetByID(ctx, card.ID)
		require.NoError(t, err)
		assert.Equal(t, "h-commit", stored.ImageHandle)
		require.NotNil(t, stored.UserID)
		assert.Equal(t, owner, *stored.UserID)

		exists, err = photocards.ExistsByImageHandle(ctx, "h-commit")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("photocard rollback", func(t *testing.T) {
		tx, err := photocards.BeginTx(ctx)
		require.NoError(t, err)
		_, err = tx.InsertPhotocard(ctx, &models.PhotocardDB{ImageURL: "u", ImageHandle: "h-rollback"})
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())

		exists, err := photocards.ExistsByImageHandle(ctx, "h-rollback")
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = photocards.GetByID(ctx, uuid.New())
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("photocard constraints", func(t *testing.T) {
		tx, err := photocards.BeginTx(ctx)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback() }()

		missing := uuid.New()
		_, err = tx.InsertPhotocard(ctx, &models.PhotocardDB{GroupID: &missing, ImageURL: "u", ImageHandle: "h-fk"})
		require.Error(t, err)
		assert.True(t, repository.IsForeignKeyViolation(err))
		assert.True(t, repository.IsConstraintViolation(err))

		tx2, err := photocards.BeginTx(ctx)
		require.NoError(t, err)
		defer func() { _ = tx2.Rollback() }()
		_, err = tx2.InsertPhotocard(ctx, &models.PhotocardDB{ImageURL: "u", ImageHandle: "h-commit"})
		require.Error(t, err)
		assert.True(t, repository.IsUniqueViolation(err))
	})

	t.Run("reference lock blocks delete", func(t *testing.T) {
		doomed, err := catalog.InsertGroup(ctx, "2NE1", nil)
		require.NoError(t, err)

		tx, err := photocards.BeginTx(ctx)
		require.NoError(t, err)
		_, err = tx.GetGroupRef(ctx, doomed.ID)
		require.NoError(t, err)

		delCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer cancel()
		_, err = conn.ExecContext(delCtx, `DELETE FROM kpop_groups WHERE id = $1`, doomed.ID)
		require.Error(t, err, "a referenced group cannot be deleted while the workflow holds it")

		_, err = tx.InsertPhotocard(ctx, &models.PhotocardDB{GroupID: &doomed.ID, ImageURL: "u", ImageHandle: "h-locked"})
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		_, err = conn.ExecContext(ctx, `DELETE FROM kpop_groups WHERE id = $1`, doomed.ID)
		require.Error(t, err)
		assert.True(t, repository.IsForeignKeyViolation(err))
	})

	t.Run("collection toggle", func(t *testing.T) {
		user := insertUser(ctx, t, conn, "jennie")
		tx, err := photocards.BeginTx(ctx)
		require.NoError(t, err)
		card, err := tx.InsertPhotocard(ctx, &models.PhotocardDB{UserID: &user, ImageURL: "u", ImageHandle: "h-collection"})
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		for _, want := range []bool{true, false, true} {
			got, err := collections.Toggle(ctx, user, card.ID, models.CollectionOwned)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}

		wished, err := collections.Toggle(ctx, user, card.ID, models.CollectionWishlisted)
		require.NoError(t, err)
		assert.True(t, wished)

		_, err = collections.Toggle(ctx, user, card.ID, models.CollectionFlag("is_deleted"))
		require.Error(t, err)

		_, err = collections.Toggle(ctx, user, uuid.New(), models.CollectionOwned)
		require.Error(t, err)
		assert.True(t, repository.IsForeignKeyViolation(err))
		assert.False(t, errors.Is(err, repository.ErrNotFound))
	})
}
