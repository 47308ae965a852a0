package store

import (
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess               RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                        // 1: Operation failed due to an internal error.
	RetCUndeclaredKey                        // 2: Key is not declared by this store.
	RetCDuplicateKey                         // 3: Key is already declared by another store.
	RetCInvalidKeyType                       // 4: Key is not a valid key.
	RetCNoUsableBackend                      // 5: No backend candidate passed validation.
	RetCTransformerCapability                // 6: Transformer can not parse or stringify.
	RetCMigrationFailed                      // 7: Backend switch failed after data was moved.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUndeclaredKey:
		return "UndeclaredKey"
	case RetCDuplicateKey:
		return "DuplicateKey"
	case RetCInvalidKeyType:
		return "InvalidKeyType"
	case RetCNoUsableBackend:
		return "NoUsableBackend"
	case RetCTransformerCapability:
		return "TransformerCapability"
	case RetCMigrationFailed:
		return "MigrationFailed"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error wraps a return code, a message and an optional cause.
// Two errors match with errors.Is if their codes are equal, so callers can test
// against the sentinels below:
//
//	if errors.Is(err, store.ErrUndeclaredKey) { ... }
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message
	Err  error   // The underlying error, if any
}

// Sentinel errors, one per return code
var (
	ErrInternal              = &Error{Code: RetCInternalError}
	ErrUndeclaredKey         = &Error{Code: RetCUndeclaredKey}
	ErrDuplicateKey          = &Error{Code: RetCDuplicateKey}
	ErrInvalidKeyType        = &Error{Code: RetCInvalidKeyType}
	ErrNoUsableBackend       = &Error{Code: RetCNoUsableBackend}
	ErrTransformerCapability = &Error{Code: RetCTransformerCapability}
	ErrMigrationFailed       = &Error{Code: RetCMigrationFailed}
)

// NewError creates a new Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// wrapError creates a new Error with the given code and cause.
func wrapError(code RetCode, err error, format string, args ...interface{}) *Error {
	return &Error{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
		Err:  err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("nskv (code %s)", e.Code))
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}
