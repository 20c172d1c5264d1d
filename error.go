package ficha

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// Every error kind in the pipeline is recoverable at item granularity;
// codes exist so the coordinator can classify an attempt's outcome in
// the ledger note without string matching.
const (
	ECAPTURE  = "capture"   // snapshot render returned no bytes or failed
	EINTERNAL = "internal"  // unexpected condition, catch-all
	EINVALID  = "invalid"   // validation failed
	ENOTFOUND = "not_found" // row trigger or element not found
	ERANGE    = "range"     // requested row index does not exist on the page
	ETIMEOUT  = "timeout"   // bounded wait elapsed
	EWRITE    = "write"     // ledger or document write could not be performed
)

// Error represents an application error with a machine-readable code
// and a human-readable message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("ficha error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper to construct an Error with formatting.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors return EINTERNAL; nil returns an empty string.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	}
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return a generic message; nil returns "".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	}
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
