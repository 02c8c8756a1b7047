package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/angelmondragon/accounts-service/pkg/db"
	"github.com/angelmondragon/accounts-service/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const emailIndexName = "users_email_key"

// GormStore persists users in postgres or sqlite.
type GormStore struct {
	client *db.Client
	now    func() time.Time
}

// NewGormStore constructs a users store bound to the provided client.
func NewGormStore(client *db.Client) *GormStore {
	return &GormStore{client: client, now: time.Now}
}

// AutoMigrate creates the users table for sqlite dev and test databases.
func (s *GormStore) AutoMigrate(ctx context.Context) error {
	return s.client.DB().WithContext(ctx).AutoMigrate(&models.User{})
}

// Create inserts a new user and returns the persisted record.
func (s *GormStore) Create(ctx context.Context, candidate NewUser) (*User, error) {
	user, err := candidate.prepare(s.now().UTC())
	if err != nil {
		return nil, err
	}

	row := toModel(user)
	if err := s.client.DB().WithContext(ctx).Create(row).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return fromModel(row), nil
}

// FindByEmail retrieves the user matching the provided email.
func (s *GormStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	var row models.User
	err := s.client.DB().WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&row).Error
	if err != nil {
		return nil, mapGormError(err)
	}
	return fromModel(&row), nil
}

// FindByID loads a user by its UUID.
func (s *GormStore) FindByID(ctx context.Context, id string) (*User, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrInvalidID
	}
	var row models.User
	if err := s.client.DB().WithContext(ctx).First(&row, "id = ?", parsed).Error; err != nil {
		return nil, mapGormError(err)
	}
	return fromModel(&row), nil
}

func (s *GormStore) ParseID(raw string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidID
	}
	return parsed.String(), nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *GormStore) Close(context.Context) error {
	return s.client.Close()
}

func mapGormError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func toModel(u *User) *models.User {
	return &models.User{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Location:     optionalString(u.Location),
		Occupation:   optionalString(u.Occupation),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func fromModel(m *models.User) *User {
	return &User{
		ID:           m.ID.String(),
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Location:     derefString(m.Location),
		Occupation:   derefString(m.Occupation),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
