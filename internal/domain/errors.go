package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeInvalidWindow     ErrorCode = "INVALID_WINDOW"
	CodeInvalidSlot       ErrorCode = "INVALID_SLOT_ALIGNMENT"
	CodeConflict          ErrorCode = "CONFLICT"
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	CodeForbidden         ErrorCode = "FORBIDDEN"
	CodeInvalidRequest    ErrorCode = "INVALID_REQUEST"
	CodeInvalidConfig     ErrorCode = "INVALID_CONFIG"
)

// Error is the typed error returned by every validation and guard in this
// package and the services built on it. Handlers map Code to an HTTP status.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Errorf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the ErrorCode from err, or "" for untyped errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// ErrSlotTaken is returned by the reservation store when the active-slot
// uniqueness constraint rejects an insert.
var ErrSlotTaken = NewError(CodeConflict, "an active reservation already exists for this time")

var ErrVenueNotFound = NewError(CodeNotFound, "venue not found")

var ErrReservationNotFound = NewError(CodeNotFound, "reservation not found")
