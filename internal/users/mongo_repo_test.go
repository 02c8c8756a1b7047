package users

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/angelmondragon/accounts-service/pkg/config"
	"github.com/angelmondragon/accounts-service/pkg/mongodb"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestDocumentMappingKeepsHashOutOfView(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	user := &User{
		FirstName:    "Ann",
		LastName:     "Lee",
		Email:        "ann@example.com",
		PasswordHash: "hash-value",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	doc := toDocument(user)
	doc.ID = bson.NewObjectID()
	assert.Equal(t, "hash-value", doc.Password)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var asMap bson.M
	require.NoError(t, bson.Unmarshal(raw, &asMap))
	assert.Contains(t, asMap, "firstName")
	assert.NotContains(t, asMap, "location")

	back := fromDocument(doc)
	assert.Equal(t, doc.ID.Hex(), back.ID)
	assert.Equal(t, "hash-value", back.PasswordHash)
}

func TestMongoStoreParseID(t *testing.T) {
	store := &MongoStore{}

	oid := bson.NewObjectID()
	got, err := store.ParseID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid.Hex(), got)

	for _, raw := range []string{"", "123", uuid.NewString(), "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		_, err := store.ParseID(raw)
		assert.ErrorIs(t, err, ErrInvalidID, raw)
	}
}

// TestMongoStoreIntegration runs against a live server when
// ACCOUNTS_TEST_MONGO_URI is set.
func TestMongoStoreIntegration(t *testing.T) {
	uri := os.Getenv("ACCOUNTS_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("ACCOUNTS_TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	client, err := mongodb.New(ctx, config.StoreConfig{
		MongoURI:      uri,
		MongoDatabase: "accounts_test_" + uuid.NewString()[:8],
		MongoTimeout:  5 * time.Second,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Database().Drop(ctx)
		_ = client.Close(ctx)
	})

	store := NewMongoStore(client)
	require.NoError(t, store.EnsureIndexes(ctx))

	created, err := store.Create(ctx, validCandidate())
	require.NoError(t, err)
	assert.Len(t, created.ID, 24)

	_, err = store.Create(ctx, validCandidate())
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	found, err := store.FindByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.True(t, created.CreatedAt.Equal(found.CreatedAt))

	_, err = store.FindByID(ctx, bson.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}
