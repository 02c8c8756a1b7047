package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/accounts-service/pkg/mongodb"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const usersCollection = "users"

// userDocument keeps the field names of the existing users collection.
type userDocument struct {
	ID         bson.ObjectID `bson:"_id"`
	FirstName  string        `bson:"firstName"`
	LastName   string        `bson:"lastName"`
	Email      string        `bson:"email"`
	Password   string        `bson:"password"`
	Location   string        `bson:"location,omitempty"`
	Occupation string        `bson:"occupation,omitempty"`
	CreatedAt  time.Time     `bson:"createdAt"`
	UpdatedAt  time.Time     `bson:"updatedAt"`
}

// MongoStore persists users in a MongoDB collection with a unique email index.
type MongoStore struct {
	client *mongodb.Client
	coll   *mongo.Collection
	now    func() time.Time
}

func NewMongoStore(client *mongodb.Client) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database().Collection(usersCollection),
		now:    time.Now,
	}
}

// EnsureIndexes creates the unique email index when missing.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_1"),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (s *MongoStore) Create(ctx context.Context, candidate NewUser) (*User, error) {
	// BSON dates keep millisecond precision.
	user, err := candidate.prepare(s.now().UTC().Truncate(time.Millisecond))
	if err != nil {
		return nil, err
	}

	doc := toDocument(user)
	doc.ID = bson.NewObjectID()
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return fromDocument(doc), nil
}

func (s *MongoStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, bson.M{"email": NormalizeEmail(email)})
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*User, error) {
	oid, err := bson.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrInvalidID
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var doc userDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fromDocument(&doc), nil
}

func (s *MongoStore) ParseID(raw string) (string, error) {
	oid, err := bson.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidID
	}
	return oid.Hex(), nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

func toDocument(u *User) *userDocument {
	return &userDocument{
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Password:   u.PasswordHash,
		Location:   u.Location,
		Occupation: u.Occupation,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func fromDocument(d *userDocument) *User {
	return &User{
		ID:           d.ID.Hex(),
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.Password,
		Location:     d.Location,
		Occupation:   d.Occupation,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
