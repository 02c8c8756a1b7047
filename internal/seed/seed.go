package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/multierr"

	"github.com/angelmondragon/accounts-service/internal/users"
	pkgerrors "github.com/angelmondragon/accounts-service/pkg/errors"
	"github.com/angelmondragon/accounts-service/pkg/logger"
	"github.com/angelmondragon/accounts-service/pkg/security"
)

// Record is one seed account. PasswordHash imports an existing bcrypt or
// Argon2id hash as-is; otherwise Password is hashed on load.
type Record struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Password     string `json:"password,omitempty"`
	PasswordHash string `json:"passwordHash,omitempty"`
	Location     string `json:"location,omitempty"`
	Occupation   string `json:"occupation,omitempty"`
}

// Result summarizes one Apply run.
type Result struct {
	Created    int
	Existing   int
	Rejected   int
	CreatedIDs []string
}

type userCreator interface {
	Create(ctx context.Context, candidate users.NewUser) (*users.User, error)
}

var errUnsupportedHash = errors.New("passwordHash is not a bcrypt or argon2id hash")

type passwordHasher interface {
	Hash(password string) (string, error)
}

// Load decodes a JSON array of records.
func Load(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return records, nil
}

// Apply creates every record through the store. Existing emails and records
// failing validation are counted and skipped; store failures are collected
// and returned together after the remaining records are attempted.
func Apply(ctx context.Context, store userCreator, hasher passwordHasher, records []Record, logg *logger.Logger) (Result, error) {
	var (
		result Result
		errs   error
	)
	for i, rec := range records {
		recCtx := ctx
		if logg != nil {
			recCtx = logg.WithFields(ctx, map[string]any{"seed_index": i, "email": users.NormalizeEmail(rec.Email)})
		}

		hash, err := passwordHashFor(rec, hasher)
		if err != nil {
			result.Rejected++
			warn(recCtx, logg, "seed.record.rejected")
			continue
		}

		created, err := store.Create(ctx, users.NewUser{
			FirstName:    rec.FirstName,
			LastName:     rec.LastName,
			Email:        rec.Email,
			PasswordHash: hash,
			Location:     rec.Location,
			Occupation:   rec.Occupation,
		})
		switch {
		case err == nil:
			result.Created++
			result.CreatedIDs = append(result.CreatedIDs, created.ID)
		case errors.Is(err, users.ErrDuplicateEmail):
			result.Existing++
			warn(recCtx, logg, "seed.record.exists")
		case pkgerrors.IsCode(err, pkgerrors.CodeValidation):
			result.Rejected++
			warn(recCtx, logg, "seed.record.rejected")
		default:
			errs = multierr.Append(errs, fmt.Errorf("seed record %d: %w", i, err))
		}
	}
	return result, errs
}

func passwordHashFor(rec Record, hasher passwordHasher) (string, error) {
	if rec.PasswordHash != "" {
		if !security.IsSupportedHash(rec.PasswordHash) {
			return "", errUnsupportedHash
		}
		return rec.PasswordHash, nil
	}
	if rec.Password == "" {
		return "", errors.New("record has neither password nor passwordHash")
	}
	return hasher.Hash(rec.Password)
}

func warn(ctx context.Context, logg *logger.Logger, msg string) {
	if logg != nil {
		logg.Warn(ctx, msg)
	}
}
