package service

import (
	"context"

	"github.com/MKhiriev/go-user-auth/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/auth_service_mock.go -package=mock

// AuthService is the authentication state machine: registration, credential
// checks, session lifecycle and password reset. Emails are normalised before
// they reach the store, so callers may pass them as typed by the user.
type AuthService interface {
	// RegisterUser creates an account. Returns [ErrUserAlreadyExists] when the
	// email is taken, including when a concurrent registration wins the race.
	RegisterUser(ctx context.Context, email, password string) (models.User, error)

	// ValidLogin reports whether password is the current password of email.
	// An unknown email is simply false.
	ValidLogin(ctx context.Context, email, password string) (bool, error)

	// CreateSession issues a new session id for email, replacing any previous
	// one. Returns "" for an unknown email.
	CreateSession(ctx context.Context, email string) (string, error)

	// GetUserFromSessionID resolves a session id to its holder. ok is false for
	// an empty or unknown session id.
	GetUserFromSessionID(ctx context.Context, sessionID string) (user models.User, ok bool, err error)

	// DestroySession ends the session of userID. Calling it again, or for a
	// user without a session, is a no-op.
	DestroySession(ctx context.Context, userID int64) error

	// GetResetPasswordToken issues a reset token for email, replacing any
	// pending one. Returns [ErrUserNotFound] for an unknown email.
	GetResetPasswordToken(ctx context.Context, email string) (string, error)

	// UpdatePassword completes a reset: the password is replaced and the reset
	// token is consumed in one update. Returns [ErrInvalidResetToken] when
	// the email, the token or their pairing is wrong.
	UpdatePassword(ctx context.Context, email, resetToken, newPassword string) error
}

// TokenGenerator produces opaque, unguessable tokens for sessions and
// password resets.
type TokenGenerator interface {
	Generate() string
}
