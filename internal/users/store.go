package users

import "context"

// Store persists user records. Implementations enforce email uniqueness with
// an index and map its violation to ErrDuplicateEmail.
type Store interface {
	Create(ctx context.Context, candidate NewUser) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	// ParseID reports whether raw is a well-formed id for this store and
	// returns its canonical form.
	ParseID(raw string) (string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
