package contract

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a reflow failure class. Every failure aborts the whole
// call; no partial schedule is ever emitted.
type ErrorCode string

const (
	ErrInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrInvalidInterval    ErrorCode = "INVALID_INTERVAL"
	ErrUnsupportedShift   ErrorCode = "UNSUPPORTED_SHIFT"
	ErrNoShiftFound       ErrorCode = "NO_SHIFT_FOUND"
	ErrCircularDependency ErrorCode = "CIRCULAR_DEPENDENCY"
	ErrMissingDependency  ErrorCode = "MISSING_DEPENDENCY"
	ErrMissingWorkCenter  ErrorCode = "MISSING_WORK_CENTER"
	ErrUnschedulable      ErrorCode = "UNSCHEDULABLE"
	ErrGuardExceeded      ErrorCode = "GUARD_EXCEEDED"
)

// Error carries a failure code, a human-readable message, and the offending
// work-order number where one applies.
type Error struct {
	Code            ErrorCode
	Message         string
	WorkOrderNumber string
}

func (e *Error) Error() string {
	if e.WorkOrderNumber != "" {
		return fmt.Sprintf("%s: %s (work order %s)", e.Code, e.Message, e.WorkOrderNumber)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errorf builds an Error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the ErrorCode from err, or "" if no *Error is in the chain.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
