package users

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/angelmondragon/accounts-service/pkg/errors"
)

// Service serves profile lookups for authenticated callers.
type Service interface {
	GetByID(ctx context.Context, callerID, rawID string) (*UserDTO, error)
}

type service struct {
	store    Store
	selfOnly bool
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Store Store
	// SelfOnly rejects lookups of any record other than the caller's.
	SelfOnly bool
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("user store is required")
	}
	return &service{store: params.Store, selfOnly: params.SelfOnly}, nil
}

func (s *service) GetByID(ctx context.Context, callerID, rawID string) (*UserDTO, error) {
	id, err := s.store.ParseID(rawID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id").
			WithDetails(map[string]string{"id": "is invalid"})
	}

	if s.selfOnly {
		caller, err := s.store.ParseID(callerID)
		if err != nil || caller != id {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot read another user's profile")
		}
	}

	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "User not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return FromUser(user), nil
}
