package service

import (
	"errors"
	"fmt"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

var (
	// ErrInvalidInput indicates a required field is missing.
	ErrInvalidInput = errors.New("username and password required")
	// ErrPasswordTooLong is an invalid input: bcrypt only hashes the first 72 bytes.
	ErrPasswordTooLong = fmt.Errorf("%w: password longer than %d bytes", ErrInvalidInput, MaxPasswordBytes)
	// ErrUserAlreadyExists is returned when attempting to register with an existing username.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized covers every way a bearer token can be unusable.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUserNotFound is returned when a valid token names a user that no longer exists.
	ErrUserNotFound = errors.New("user not found")
)
