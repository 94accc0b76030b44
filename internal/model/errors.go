package model

import (
	"errors"
	"fmt"
)

// Store-level sentinels. Repositories translate their backend's failures
// into these; services translate them into APIErrors.
var (
	// ErrNotFound is returned by stores when no row matches a lookup.
	ErrNotFound = errors.New("not found")
	// ErrFileExists is returned by FileStore.Save on a (owner, name) collision.
	ErrFileExists = errors.New("file already exists")
	// ErrTokenTaken is returned by UserStore.Save when the auth token is
	// already held by another user.
	ErrTokenTaken = errors.New("auth token already in use")
	// ErrLoginTaken is returned by UserStore.Save when the login is already
	// registered.
	ErrLoginTaken = errors.New("login already in use")
)

// ErrorKind classifies caller-visible failures.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindInvalidCredentials
	KindUnauthenticated
	KindInvalidArgument
	KindAlreadyExists
	KindNotFound
	KindIO
)

// APIError is a failure surfaced to the transport layer. Kind drives the
// protocol mapping, Message is safe to show to the caller.
type APIError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// NewErrInvalidCredentials reports a login/password mismatch.
func NewErrInvalidCredentials() *APIError {
	return &APIError{Kind: KindInvalidCredentials, Message: "login and/or password is incorrect"}
}

// NewErrUnauthenticated reports a missing or unknown auth token.
func NewErrUnauthenticated() *APIError {
	return &APIError{Kind: KindUnauthenticated, Message: "user with provided auth token not found"}
}

// NewErrInvalidArgument reports a rejected request field.
func NewErrInvalidArgument(message string) *APIError {
	return &APIError{Kind: KindInvalidArgument, Message: message}
}

// NewErrFileExists reports a filename collision within the owner's namespace.
func NewErrFileExists(filename string) *APIError {
	return &APIError{
		Kind:    KindAlreadyExists,
		Message: fmt.Sprintf("file with provided filename already exists: %s", filename),
	}
}

// NewErrFileNotFound reports an absent filename within the owner's namespace.
func NewErrFileNotFound(filename string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("file with provided filename not found: %s", filename),
	}
}

// NewErrPayloadRead wraps a payload read failure.
func NewErrPayloadRead(cause error) *APIError {
	return &APIError{Kind: KindIO, Message: "can't get file bytes", cause: cause}
}
