// Package apperr carries the error kinds the HTTP boundary understands.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	InvalidInput
	NotFound
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case NotFound:
		return "not_found"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Invalid(msg string) error { return &Error{Kind: InvalidInput, Message: msg} }

func Invalidf(format string, args ...any) error {
	return &Error{Kind: InvalidInput, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

// Wrap marks err as Internal. The message is for logs only.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: Internal, Message: msg, Err: err}
}

// KindOf reports Internal for anything that is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Message returns the caller-safe text of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Message
	}
	return "Internal server error"
}

func HTTPStatus(k Kind) int {
	switch k {
	case InvalidInput:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
