package auth

import (
	"context"
	"errors"

	"github.com/angelmondragon/accounts-service/internal/users"
	pkgerrors "github.com/angelmondragon/accounts-service/pkg/errors"
	"github.com/angelmondragon/accounts-service/pkg/metrics"
	"github.com/angelmondragon/accounts-service/pkg/security"
)

// Register hashes the plaintext password and persists the account. The
// plaintext never reaches the store.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrEmptyPassword) {
			s.metrics.IncRegistration(metrics.OutcomeValidation)
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"password": "is required"})
		}
		s.metrics.IncRegistration(metrics.OutcomeError)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.NewUser{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Location:     req.Location,
		Occupation:   req.Occupation,
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrDuplicateEmail):
			s.metrics.IncRegistration(metrics.OutcomeDuplicateEmail)
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicateEmail, err, "email already registered")
		case pkgerrors.IsCode(err, pkgerrors.CodeValidation):
			s.metrics.IncRegistration(metrics.OutcomeValidation)
			return nil, err
		default:
			s.metrics.IncRegistration(metrics.OutcomeError)
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
	}

	s.metrics.IncRegistration(metrics.OutcomeSuccess)
	return users.FromUser(user), nil
}
