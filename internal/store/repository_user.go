package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-user-auth/internal/logger"
	"github.com/MKhiriev/go-user-auth/models"
)

// userRepository is the SQL implementation of [UserRepository] for both
// PostgreSQL and SQLite. Uniqueness of email and session id is enforced by
// the schema; constraint violations are translated into sentinel errors.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Str("dialect", db.dialect).Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// AddUser inserts a new row and returns it as stored.
//
// Error handling:
//   - unique violation on email → [ErrDuplicateEmail].
//   - transient errors are retried, anything else is wrapped.
func (r *userRepository) AddUser(ctx context.Context, email, hashedPassword string) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertUserQuery(r.db.builder(), email, hashedPassword)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.AddUser").Msg("error building query")
		return models.User{}, err
	}

	var user models.User
	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		return scanUser(r.db.QueryRowContext(ctx, query, args...), &user)
	})
	if err != nil {
		if column, ok := r.db.errorClassificator.UniqueViolation(err); ok && column != "session_id" {
			return models.User{}, ErrDuplicateEmail
		}
		log.Err(err).Str("func", "*userRepository.AddUser").Msg("error inserting user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return user, nil
}

// FindUser selects one user by criteria.
//
// Error handling:
//   - no rows → [ErrUserNotFound].
//   - zero criteria → [ErrInvalidCriteria].
func (r *userRepository) FindUser(ctx context.Context, criteria Criteria) (models.User, error) {
	log := logger.FromContext(ctx)

	if criteria.matchesNothing() {
		return models.User{}, ErrUserNotFound
	}

	query, args, err := buildSelectUserQuery(r.db.builder(), criteria)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		return scanUser(r.db.QueryRowContext(ctx, query, args...), &user)
	})
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, sql.ErrNoRows):
		return models.User{}, ErrUserNotFound
	default:
		log.Err(err).Str("func", "*userRepository.FindUser").Str("criteria", criteria.String()).Msg("error selecting user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}
}

// UpdateUser applies update with a single UPDATE statement.
//
// Error handling:
//   - empty update → [ErrInvalidField].
//   - no affected rows → [ErrUserNotFound].
//   - unique violation → [ErrDuplicateEmail] or [ErrDuplicateSession].
func (r *userRepository) UpdateUser(ctx context.Context, id int64, update models.UserUpdate) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateUserQuery(r.db.builder(), id, update)
	if err != nil {
		return err
	}

	var affected int64
	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		if column, ok := r.db.errorClassificator.UniqueViolation(err); ok {
			if column == "session_id" {
				return ErrDuplicateSession
			}
			return ErrDuplicateEmail
		}
		log.Err(err).Str("func", "*userRepository.UpdateUser").Int64("user_id", id).Msg("error updating user")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectAllUsersQuery(r.db.builder())
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ListUsers").Msg("error selecting users")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return users, nil
}

func (r *userRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *userRepository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, user *models.User) error {
	err := row.Scan(
		&user.UserID,
		&user.Email,
		&user.HashedPassword,
		&user.SessionID,
		&user.ResetToken,
		&user.CreatedAt,
	)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		// keep driver errors visible to the classifier
		return fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return err
}
