// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client side of the go-user-auth HTTP surface.
//
// The primary abstraction is [ServerAdapter], which hides form encoding, the
// session cookie and the status codes of the server. The package ships an
// HTTP implementation built on resty ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] (e.g. [ErrForbidden] for
// 403, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-user-auth/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter talks to the auth server on behalf of one user. It holds at
// most one session id, captured by Login and dropped by Logout.
type ServerAdapter interface {
	// Register creates an account. A taken email yields [ErrBadRequest].
	Register(ctx context.Context, email, password string) (models.MessageResponse, error)

	// Login checks the credentials and stores the session id from the
	// "session_id" cookie. Wrong credentials yield [ErrUnauthorized].
	Login(ctx context.Context, email, password string) (models.MessageResponse, error)

	// Profile returns the email of the logged in user. Without a valid
	// session it yields [ErrForbidden].
	Profile(ctx context.Context) (models.ProfileResponse, error)

	// Logout destroys the session on the server and forgets the session id.
	Logout(ctx context.Context) error

	// ResetPasswordToken requests a reset token for email. An unknown email
	// yields [ErrForbidden].
	ResetPasswordToken(ctx context.Context, email string) (models.ResetTokenResponse, error)

	// UpdatePassword replaces the password using a reset token. A wrong
	// token yields [ErrForbidden].
	UpdatePassword(ctx context.Context, email, resetToken, newPassword string) (models.MessageResponse, error)

	// SetSessionID replaces the stored session id; "" forgets it.
	SetSessionID(sessionID string)

	// SessionID returns the stored session id or "".
	SessionID() string
}
