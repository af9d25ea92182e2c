package store

import (
	"context"

	"github.com/MKhiriev/go-user-auth/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/user_repository_mock.go -package=mock

// UserRepository is the persistent mapping from user identity to credential
// and session state. Every implementation is safe for concurrent use and
// enforces email uniqueness itself; callers never rely on a prior lookup.
type UserRepository interface {
	// AddUser creates a user with no session and no reset token.
	// Returns [ErrDuplicateEmail] if email is taken.
	AddUser(ctx context.Context, email, hashedPassword string) (models.User, error)

	// FindUser returns the single user matching criteria.
	// Returns [ErrUserNotFound] or [ErrInvalidCriteria].
	FindUser(ctx context.Context, criteria Criteria) (models.User, error)

	// UpdateUser atomically applies update to the user with id. Readers
	// observe either the old or the new state, never a mix.
	// Returns [ErrUserNotFound], [ErrInvalidField], [ErrDuplicateEmail] or
	// [ErrDuplicateSession].
	UpdateUser(ctx context.Context, id int64, update models.UserUpdate) error

	// ListUsers returns every user ordered by id.
	ListUsers(ctx context.Context) ([]models.User, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend resources.
	Close() error
}
