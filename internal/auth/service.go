package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/accounts-service/internal/users"
	pkgerrors "github.com/angelmondragon/accounts-service/pkg/errors"
	"github.com/angelmondragon/accounts-service/pkg/metrics"
)

const (
	userNotFoundMessage       = "User does not exist"
	invalidCredentialsMessage = "Invalid credentials"
)

// Service defines the behavior needed by the auth controllers.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type service struct {
	users   userStore
	hasher  passwordHasher
	tokens  tokenIssuer
	metrics authMetrics
}

type userStore interface {
	Create(ctx context.Context, candidate users.NewUser) (*users.User, error)
	FindByEmail(ctx context.Context, email string) (*users.User, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

type tokenIssuer interface {
	Issue(subjectID string) (string, error)
}

type authMetrics interface {
	IncRegistration(outcome string)
	IncLogin(outcome string)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserStore userStore
	Hasher    passwordHasher
	Tokens    tokenIssuer
	// Metrics is optional.
	Metrics authMetrics
}

// NewService constructs the account service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserStore == nil {
		return nil, fmt.Errorf("user store is required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	if params.Tokens == nil {
		return nil, fmt.Errorf("token issuer is required")
	}
	m := params.Metrics
	if m == nil {
		m = (*metrics.AuthMetrics)(nil)
	}
	return &service{
		users:   params.UserStore,
		hasher:  params.Hasher,
		tokens:  params.Tokens,
		metrics: m,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			s.metrics.IncLogin(metrics.OutcomeUserNotFound)
			return nil, pkgerrors.New(pkgerrors.CodeUserNotFound, userNotFoundMessage)
		}
		s.metrics.IncLogin(metrics.OutcomeError)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.metrics.IncLogin(metrics.OutcomeInvalidCredentials)
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.metrics.IncLogin(metrics.OutcomeError)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	s.metrics.IncLogin(metrics.OutcomeSuccess)
	return &LoginResponse{
		Result: users.FromUser(user),
		Token:  token,
	}, nil
}
