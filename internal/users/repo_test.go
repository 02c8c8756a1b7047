package users

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/accounts-service/pkg/config"
	"github.com/angelmondragon/accounts-service/pkg/db"
	pkgerrors "github.com/angelmondragon/accounts-service/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func setupGormStore(t *testing.T) *GormStore {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := db.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	store := NewGormStore(db.NewFromGorm(conn, config.StoreDriverSQLite))
	require.NoError(t, store.AutoMigrate(context.Background()))
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func TestGormStoreCreateAndFind(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	created, err := store.Create(ctx, validCandidate())
	require.NoError(t, err)

	_, err = uuid.Parse(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", created.Email)
	assert.Equal(t, "Ann", created.FirstName)
	assert.Equal(t, "Lisbon", created.Location)
	assert.True(t, created.CreatedAt.Equal(fixed))

	byEmail, err := store.FindByEmail(ctx, "  ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, validCandidate().PasswordHash, byEmail.PasswordHash)

	byID, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, byID.Email)
	assert.WithinDuration(t, fixed, byID.UpdatedAt, time.Second)
}

func TestGormStoreDuplicateEmail(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, validCandidate())
	require.NoError(t, err)

	again := validCandidate()
	again.Email = "ANN@EXAMPLE.COM"
	_, err = store.Create(ctx, again)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestGormStoreValidation(t *testing.T) {
	store := setupGormStore(t)

	candidate := validCandidate()
	candidate.FirstName = "Al"
	_, err := store.Create(context.Background(), candidate)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestGormStoreLookupsMiss(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()

	_, err := store.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.FindByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestGormStoreParseID(t *testing.T) {
	store := setupGormStore(t)
	id := uuid.New()

	got, err := store.ParseID(" " + id.String() + " ")
	require.NoError(t, err)
	assert.Equal(t, id.String(), got)

	_, err = store.ParseID("665f1c2e8b3a4d0012ab34cd")
	assert.ErrorIs(t, err, ErrInvalidID)
	require.NoError(t, store.Ping(context.Background()))
}
