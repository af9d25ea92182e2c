package client

import "errors"

var (
	errEmptyPassword = errors.New("password must not be empty")
	errNoSession     = errors.New("no session: pass --session with the id printed by login")
)
