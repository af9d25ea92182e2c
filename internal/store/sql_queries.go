package store

import (
	"fmt"

	"github.com/MKhiriev/go-user-auth/models"
	sq "github.com/Masterminds/squirrel"
)

var userColumns = []string{
	"user_id",
	"email",
	"hashed_password",
	"session_id",
	"reset_token",
	"created_at",
}

func buildInsertUserQuery(b sq.StatementBuilderType, email, hashedPassword string) (string, []any, error) {
	query, args, err := b.
		Insert(models.User{}.TableName()).
		Columns("email", "hashed_password").
		Values(email, hashedPassword).
		Suffix("RETURNING user_id, email, hashed_password, session_id, reset_token, created_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectUserQuery(b sq.StatementBuilderType, criteria Criteria) (string, []any, error) {
	if !criteria.Valid() {
		return "", nil, ErrInvalidCriteria
	}

	query, args, err := b.
		Select(userColumns...).
		From(models.User{}.TableName()).
		Where(sq.Eq{criteria.Column(): criteria.Value()}).
		Limit(1).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectAllUsersQuery(b sq.StatementBuilderType) (string, []any, error) {
	query, args, err := b.
		Select(userColumns...).
		From(models.User{}.TableName()).
		OrderBy("user_id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildUpdateUserQuery sets only the fields present in update, in a single
// statement so the change is atomic.
func buildUpdateUserQuery(b sq.StatementBuilderType, id int64, update models.UserUpdate) (string, []any, error) {
	if update.IsEmpty() {
		return "", nil, ErrInvalidField
	}

	query := b.Update(models.User{}.TableName())

	if update.Email != nil {
		query = query.Set("email", *update.Email)
	}
	if update.HashedPassword != nil {
		query = query.Set("hashed_password", *update.HashedPassword)
	}
	if update.SessionID != nil {
		query = query.Set("session_id", *update.SessionID)
	}
	if update.ResetToken != nil {
		query = query.Set("reset_token", *update.ResetToken)
	}

	sqlText, args, err := query.Where(sq.Eq{"user_id": id}).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return sqlText, args, nil
}
