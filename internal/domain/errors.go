package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// CapacityError reports a rejected seat reservation on a full package date.
type CapacityError struct {
	DateID int64
}

func (e CapacityError) Error() string {
	if e.DateID > 0 {
		return fmt.Sprintf("no seats remaining on date %d", e.DateID)
	}
	return "no seats remaining"
}

// TransitionError reports a status change not allowed from the current state.
type TransitionError struct {
	Resource string
	From     string
	To       string
}

func (e TransitionError) Error() string {
	if e.From != "" && e.To != "" {
		return fmt.Sprintf("%s cannot go from %s to %s", e.Resource, e.From, e.To)
	}
	return fmt.Sprintf("invalid %s transition", e.Resource)
}

// DuplicatePaymentError reports a second payment record of the same kind.
type DuplicatePaymentError struct {
	BookingID int64
	Kind      string
}

func (e DuplicatePaymentError) Error() string {
	return fmt.Sprintf("booking %d already has a %s payment", e.BookingID, e.Kind)
}

type UnauthorizedError struct {
	Msg string
}

func (e UnauthorizedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unauthorized"
}

// TransientError wraps persistence hiccups the caller may retry
// (deadlocks, lock wait timeouts, cancelled contexts).
type TransientError struct {
	Err error
}

func (e TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transient failure: %v", e.Err)
	}
	return "transient failure"
}

func (e TransientError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsCapacity(err error) bool {
	var target CapacityError
	return errors.As(err, &target)
}

func IsTransition(err error) bool {
	var target TransitionError
	return errors.As(err, &target)
}

func IsDuplicatePayment(err error) bool {
	var target DuplicatePaymentError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

func IsTransient(err error) bool {
	var target TransientError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
