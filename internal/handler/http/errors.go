// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrNoSessionCookie is logged by the session middleware when the request
	// carries no "session_id" cookie.
	ErrNoSessionCookie = errors.New("no `session_id` cookie")

	// ErrUnknownSession is logged when the cookie names no active session.
	ErrUnknownSession = errors.New("unknown session")
)
