package domain

import "errors"

// Sentinel errors shared by services and repositories. Controllers map them to HTTP status codes.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidPage        = errors.New("invalid page")
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
	ErrInvalidToken       = errors.New("token is invalid or expired")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUsername  = errors.New("username already in use")
	ErrAmountNotPositive  = errors.New("amount must be greater than zero")
)
