package models

import (
	"database/sql"
	"time"
)

// User represents an account entity used for authentication.
// It carries the identity attributes and the state of the two independent
// token lifecycles: the login session and the pending password reset.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is assigned by the store on creation and never reused.
	UserID int64 `json:"-"`

	// Email is the unique user identifier used during authentication.
	// It is stored in its normalised form.
	Email string `json:"email"`

	// HashedPassword stores the output of the credential hasher.
	// This value MUST be a derived value, never plaintext.
	HashedPassword string `json:"-"`

	// SessionID is the opaque token of the currently active session.
	// It is valid iff the user is logged in; a new login overwrites it.
	SessionID sql.NullString `json:"-"`

	// ResetToken is the opaque token of a pending password reset.
	// It is valid iff a reset was requested and not yet completed.
	ResetToken sql.NullString `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// UserUpdate represents a partial update of a single user.
// Only non-nil fields will be updated. For the nullable token fields a
// non-nil value with Valid == false clears the column.
type UserUpdate struct {
	// Email is the new (normalised) email address.
	Email *string

	// HashedPassword is the new credential hash.
	HashedPassword *string

	// SessionID replaces or clears the active session token.
	SessionID *sql.NullString

	// ResetToken replaces or clears the pending reset token.
	ResetToken *sql.NullString
}

// IsEmpty reports whether the update does not touch any field.
func (u UserUpdate) IsEmpty() bool {
	return u.Email == nil && u.HashedPassword == nil && u.SessionID == nil && u.ResetToken == nil
}

// Apply returns a copy of user with the update applied.
func (u UserUpdate) Apply(user User) User {
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.HashedPassword != nil {
		user.HashedPassword = *u.HashedPassword
	}
	if u.SessionID != nil {
		user.SessionID = *u.SessionID
	}
	if u.ResetToken != nil {
		user.ResetToken = *u.ResetToken
	}
	return user
}

// SetToken wraps a token value for use in a [UserUpdate].
func SetToken(token string) *sql.NullString {
	return &sql.NullString{String: token, Valid: true}
}

// ClearToken returns a [UserUpdate] value that resets a token column to null.
func ClearToken() *sql.NullString {
	return &sql.NullString{}
}
