package auth

import "errors"

var (
	// ErrNotFound indicates the requested user does not exist.
	ErrNotFound = errors.New("auth: not found")
	// ErrAlreadyExists indicates a registration conflict on email.
	ErrAlreadyExists = errors.New("auth: already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrRateLimited indicates the identifier is temporarily locked out
	// after repeated failed logins.
	ErrRateLimited = errors.New("auth: too many login attempts")
	// ErrInvalidToken indicates the token failed validation. Every token
	// failure (expired, malformed, wrong signature, wrong type) collapses
	// into this value.
	ErrInvalidToken = errors.New("auth: invalid token")
)
