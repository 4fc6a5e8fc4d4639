package service

import "errors"

// ErrForbidden means the caller failed the access policy gate. Handlers map
// it to 403 without distinguishing role failures from ownership failures.
var ErrForbidden = errors.New("forbidden")

// ValidationError is malformed input detected before any store mutation.
// Handlers map it to 400 with the message as-is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErrorf(msg string) error {
	return &ValidationError{Msg: msg}
}

// ConflictError is a store-level constraint violation explained well enough
// for the client to act on. Handlers map it to 400 or 409 depending on the
// operation.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string {
	return e.Msg
}
