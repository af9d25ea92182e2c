package store

import "errors"

// Sentinel errors returned by [UserRepository] implementations. Callers
// should use [errors.Is] to match against these values.
var (
	// ErrDuplicateEmail is returned when a user with the same email already
	// exists. It is raised by the storage layer itself (unique constraint or
	// insert-if-absent), so it is reliable under concurrent registration.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrDuplicateSession is returned when an update would give a user a
	// session id that another user already holds.
	ErrDuplicateSession = errors.New("session id already in use")

	// ErrUserNotFound is returned when no user matches a lookup or update.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCriteria is returned for a lookup criteria that was not built
	// with ByEmail, BySessionID or ByID.
	ErrInvalidCriteria = errors.New("invalid lookup criteria")

	// ErrInvalidField is returned for an update that does not set any
	// mutable field.
	ErrInvalidField = errors.New("invalid update field")

	// ErrUnsupportedDSN is returned when no backend matches the database URI.
	ErrUnsupportedDSN = errors.New("unsupported database URI")
)

// Low-level database operation errors. These are wrapped by the SQL
// repository when an operation fails before any domain logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a result
	// row fails.
	ErrScanningRow = errors.New("failed to scan user row")
)
