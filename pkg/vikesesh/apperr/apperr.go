// Package apperr holds the error kinds the core surfaces to callers.
// None of these are retryable by the core itself; retry policy on
// storage-level failures belongs to the caller.
package apperr

import "fmt"

// ValidationError reports malformed or referentially invalid input, such
// as an unknown group, student or visibility mode.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError from a format string
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a lookup that matched nothing, e.g. responding to
// an invitation that was never issued.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// NotFound builds a NotFoundError for the named resource
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// DuplicateInvitationError reports a second invitation for the same
// (event, student) pair. Callers may treat it as benign ("already
// invited") or surface it.
type DuplicateInvitationError struct {
	EventID   uint
	StudentID uint
}

func (e *DuplicateInvitationError) Error() string {
	return fmt.Sprintf("student %d is already invited to event %d", e.StudentID, e.EventID)
}

// ImmutableFieldError reports an attempt to change a field that is fixed
// after creation, such as an event's visibility mode.
type ImmutableFieldError struct {
	Field string
}

func (e *ImmutableFieldError) Error() string {
	return e.Field + " cannot be changed after creation"
}
