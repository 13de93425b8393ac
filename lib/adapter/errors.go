package adapter

import "fmt"

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("AdapterError (code %s): %s", e.Code, e.Msg)
}

// Is reports whether target is an *Error with the same code.
// This allows errors.Is(err, ErrEnvironmentUnsupported) regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates a new AdapterError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// ErrEnvironmentUnsupported is returned by every durable operation when the
// environment does not provide a host storage facility.
var ErrEnvironmentUnsupported = NewError(RetCEnvironmentUnsupported, "environment does not support persistent storage")

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess                RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                         // 1: Operation failed due to an internal error (host I/O, corrupt document).
	RetCEnvironmentUnsupported                // 2: The host storage facility is not available.
	RetCUnknownScheme                         // 3: The request targets a scheme the adapter does not serve.
	RetCInvalidOperation                      // 4: Invalid operation.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCEnvironmentUnsupported:
		return "EnvironmentUnsupported"
	case RetCUnknownScheme:
		return "UnknownScheme"
	case RetCInvalidOperation:
		return "InvalidOperation"
	default:
		return "Unknown"
	}
}
