package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotLoggedIn        = errors.New("connection has no session")
	ErrLookupFailed       = errors.New("external lookup failed")
	ErrConnectionClosed   = errors.New("connection closed")
)
