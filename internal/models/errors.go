package models

import "errors"

// Sentinel errors shared across services and handlers. Handlers map each one
// to a single HTTP status; services wrap them with fmt.Errorf("%w") when they
// have detail to add.
var (
	// ErrValidation signals missing or malformed input fields.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateEmail signals a registration attempt with an email that is
	// already taken. Uniqueness is enforced by the database, not the caller.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is returned for both an unknown username and a
	// wrong password, so a caller cannot tell which factor failed.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrTokenInvalid signals a malformed, tampered or otherwise unverifiable
	// token.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenExpired signals a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrUnauthenticated signals that no acting user could be resolved from
	// the request credential.
	ErrUnauthenticated = errors.New("could not validate credentials")

	// ErrNotFound covers both a truly absent record and a record owned by
	// someone else. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")
)
