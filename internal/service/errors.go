package service

import "errors"

var (
	// ErrInvalidDataProvided is returned when a required input is empty.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrUserAlreadyExists is returned by registration for a taken email.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrUserNotFound is returned by the reset-token flow for an unknown email.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidResetToken is returned when a password update presents an
	// unknown email, no pending reset, or a token that does not match.
	ErrInvalidResetToken = errors.New("invalid reset token")

	// ErrTokenCreationFailed is returned when no unique session token could be
	// stored.
	ErrTokenCreationFailed = errors.New("token creation failed")
)
