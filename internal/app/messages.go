// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the user-facing message strings shared by the HTTP
// handlers and the CLI client.
//
// All Msg* constants are written into the "message" field of JSON response
// bodies. Keeping them in one place keeps the server and the client that
// checks them in agreement.
package app

const (
	// MsgWelcome is the body of the index route.
	MsgWelcome = "Bienvenue"

	// MsgUserCreated confirms a registration.
	MsgUserCreated = "user created"

	// MsgEmailAlreadyRegistered is returned when registration names an email
	// that already has an account.
	MsgEmailAlreadyRegistered = "email already registered"

	// MsgLoggedIn confirms a login; the session cookie travels alongside.
	MsgLoggedIn = "logged in"

	// MsgPasswordUpdated confirms a password reset.
	MsgPasswordUpdated = "Password updated"

	// MsgInvalidForm is returned when the request body is not a parsable form.
	MsgInvalidForm = "invalid form"
)
