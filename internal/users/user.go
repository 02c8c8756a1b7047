package users

import (
	"errors"
	"strings"
	"time"

	"github.com/angelmondragon/accounts-service/pkg/validation"
)

var (
	// ErrNotFound is returned when no record matches a lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the email index already holds the address.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidID is returned for identifiers the store cannot represent.
	ErrInvalidID = errors.New("invalid user id")
)

// User is the stored account record. ID is assigned by the store.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Location     string
	Occupation   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser is a creation candidate. PasswordHash must already be hashed.
type NewUser struct {
	FirstName    string `json:"firstName" validate:"required,min=3,max=50"`
	LastName     string `json:"lastName" validate:"required,min=3,max=50"`
	Email        string `json:"email" validate:"required,email"`
	PasswordHash string `json:"passwordHash" validate:"required,min=6,max=1024"`
	Location     string `json:"location"`
	Occupation   string `json:"occupation"`
}

// Normalize trims every field and lower-cases the email.
func (n NewUser) Normalize() NewUser {
	return NewUser{
		FirstName:    strings.TrimSpace(n.FirstName),
		LastName:     strings.TrimSpace(n.LastName),
		Email:        NormalizeEmail(n.Email),
		PasswordHash: n.PasswordHash,
		Location:     strings.TrimSpace(n.Location),
		Occupation:   strings.TrimSpace(n.Occupation),
	}
}

// Validate checks field constraints on the normalized candidate.
func (n NewUser) Validate() error {
	return validation.Struct(&n)
}

// prepare normalizes and validates n and stamps it into a record.
func (n NewUser) prepare(now time.Time) (*User, error) {
	candidate := n.Normalize()
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	return &User{
		FirstName:    candidate.FirstName,
		LastName:     candidate.LastName,
		Email:        candidate.Email,
		PasswordHash: candidate.PasswordHash,
		Location:     candidate.Location,
		Occupation:   candidate.Occupation,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
