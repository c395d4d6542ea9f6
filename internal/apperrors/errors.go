// Package apperrors defines the canonical failure kinds raised by the
// service and translates them into the fixed external error shape at the
// HTTP boundary.
package apperrors

import "fmt"

type Kind int

const (
	KindNotFound Kind = iota
	KindDuplicate
	KindForbidden
	KindInvalidCredentials
	KindValidation
	KindInternal
)

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string // per-field messages, validation only
	Err     error             // wrapped cause, logged but never surfaced
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(resource string, id any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found with id: %v", resource, id)}
}

func NotFoundMessage(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Duplicate(message string) *Error {
	return &Error{Kind: KindDuplicate, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// InvalidCredentials is deliberately identical for unknown email and wrong
// password so login failures do not reveal account existence.
func InvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Message: "Invalid email or password"}
}

func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Fields: fields}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "An unexpected error occurred", Err: err}
}
