package docbot

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINVALID    = "invalid"
	ENOTFOUND   = "not_found"
	EINTERNAL   = "internal"
	EEMBEDDING  = "embedding_unavailable"
	EGENERATION = "generation_unavailable"
	EDIMENSION  = "dimension_mismatch"
	ECORRUPT    = "index_corrupt"
	EEMPTY      = "empty_index"
)

// Error represents an application-specific error. Code is machine-readable,
// Message is suitable for showing to the user.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsIntegrityError reports whether err signals a broken index, which no
// stage may swallow.
func IsIntegrityError(err error) bool {
	code := ErrorCode(err)
	return code == EDIMENSION || code == ECORRUPT
}
