package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/angelmondragon/accounts-service/internal/users"
	"github.com/angelmondragon/accounts-service/pkg/config"
	"github.com/angelmondragon/accounts-service/pkg/db"
	"github.com/angelmondragon/accounts-service/pkg/security"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
)

func testHasher() *security.Hasher {
	return security.NewHasher(config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
}

func setupStore(t *testing.T) *users.GormStore {
	t.Helper()
	conn, err := db.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())))
	require.NoError(t, err)
	store := users.NewGormStore(db.NewFromGorm(conn, config.StoreDriverSQLite))
	require.NoError(t, store.AutoMigrate(context.Background()))
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func TestLoad(t *testing.T) {
	records, err := Load(strings.NewReader(`[{"firstName":"Steve","lastName":"Ralph","email":"steve@example.com","password":"demo-pass"}]`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "steve@example.com", records[0].Email)

	_, err = Load(strings.NewReader(`{"not":"an array"}`))
	assert.Error(t, err)
}

func TestApplyCreatesSkipsAndRejects(t *testing.T) {
	store := setupStore(t)
	hasher := testHasher()
	ctx := context.Background()

	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	records := []Record{
		{FirstName: "Steve", LastName: "Ralph", Email: "steve@example.com", Password: "demo-pass"},
		{FirstName: "Whatcha", LastName: "Doing", Email: "Legacy@Example.com", PasswordHash: string(legacy)},
		{FirstName: "Steve", LastName: "Again", Email: "STEVE@example.com", Password: "other-pass"},
		{FirstName: "Al", LastName: "Me", Email: "short@example.com", Password: "demo-pass"},
		{FirstName: "Nopass", LastName: "Person", Email: "nopass@example.com"},
	}

	result, err := Apply(ctx, store, hasher, records, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Existing)
	assert.Equal(t, 2, result.Rejected)
	assert.Len(t, result.CreatedIDs, 2)

	imported, err := store.FindByEmail(ctx, "legacy@example.com")
	require.NoError(t, err)
	assert.Equal(t, string(legacy), imported.PasswordHash)
	assert.True(t, hasher.Verify("legacy-pass", imported.PasswordHash))

	hashed, err := store.FindByEmail(ctx, "steve@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "demo-pass", hashed.PasswordHash)
	assert.True(t, hasher.Verify("demo-pass", hashed.PasswordHash))
}

func TestApplyIsRepeatable(t *testing.T) {
	store := setupStore(t)
	records := []Record{{FirstName: "Steve", LastName: "Ralph", Email: "steve@example.com", Password: "demo-pass"}}

	_, err := Apply(context.Background(), store, testHasher(), records, nil)
	require.NoError(t, err)

	result, err := Apply(context.Background(), store, testHasher(), records, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Existing)
}

type brokenStore struct{}

func (brokenStore) Create(context.Context, users.NewUser) (*users.User, error) {
	return nil, errors.New("server selection timeout")
}

func TestApplyCollectsStoreErrors(t *testing.T) {
	records := []Record{
		{FirstName: "Steve", LastName: "Ralph", Email: "steve@example.com", Password: "demo-pass"},
		{FirstName: "Some", LastName: "Guy", Email: "someguy@example.com", Password: "demo-pass"},
	}

	result, err := Apply(context.Background(), brokenStore{}, testHasher(), records, nil)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Equal(t, 0, result.Created)
}

func TestApplyRejectsUnrecognisedImportedHash(t *testing.T) {
	store := setupStore(t)
	hasher := testHasher()
	ctx := context.Background()

	argonHash, err := hasher.Hash("argon-pass")
	require.NoError(t, err)

	result, err := Apply(ctx, store, hasher, []Record{
		{FirstName: "Ann", LastName: "Lee", Email: "plain@example.com", PasswordHash: "secret1"},
		{FirstName: "Ann", LastName: "Lee", Email: "huge@example.com", PasswordHash: "$argon2id$v=19$m=4294967295,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA"},
		{FirstName: "Ann", LastName: "Lee", Email: "argon@example.com", PasswordHash: argonHash},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.Rejected)

	_, err = store.FindByEmail(ctx, "plain@example.com")
	assert.ErrorIs(t, err, users.ErrNotFound)

	imported, err := store.FindByEmail(ctx, "argon@example.com")
	require.NoError(t, err)
	assert.True(t, hasher.Verify("argon-pass", imported.PasswordHash))
}
