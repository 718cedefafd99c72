package apperr

import (
	"errors"
	"fmt"
)

// Code is the caller-facing error class. Values are stable strings.
type Code string

const (
	CodeNotFound                  Code = "NOT_FOUND"
	CodeSubscriptionAlreadyCancel Code = "ERROR_SUBSCRIPTION_ALREADY_CANCELLED"
	CodeInvalidArguments          Code = "INVALID_ARGUMENTS"
	CodeInvalidPassthrough        Code = "INVALID_PASSTHROUGH"
	CodeUnauthorized              Code = "UNAUTHORIZED"
	CodeBadRequest                Code = "BAD_REQUEST"
	CodeMalformedState            Code = "MALFORMED_STATE"
)

// Error carries a Code plus a human readable message. Two errors match with
// errors.Is when their codes match, so the package-level sentinels below can be
// used as targets regardless of the message.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if e.Code == t.Code {
		return true
	}
	// INVALID_PASSTHROUGH is reported to callers as its own code but belongs to
	// the unauthorized class.
	return e.Code == CodeInvalidPassthrough && t.Code == CodeUnauthorized
}

var (
	ErrNotFound                     = &Error{Code: CodeNotFound}
	ErrSubscriptionAlreadyCancelled = &Error{Code: CodeSubscriptionAlreadyCancel}
	ErrInvalidArguments             = &Error{Code: CodeInvalidArguments}
	ErrInvalidPassthrough           = &Error{Code: CodeInvalidPassthrough}
	ErrUnauthorized                 = &Error{Code: CodeUnauthorized}
	ErrBadRequest                   = &Error{Code: CodeBadRequest}
	ErrMalformedState               = &Error{Code: CodeMalformedState}
)

func New(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error { return New(CodeNotFound, format, args...) }

func BadRequest(format string, args ...any) error { return New(CodeBadRequest, format, args...) }

// InvalidPassthrough reports correlation ids that belong to another owner.
func InvalidPassthrough(format string, args ...any) error {
	return New(CodeInvalidPassthrough, format, args...)
}

func InvalidArguments(format string, args ...any) error {
	return New(CodeInvalidArguments, format, args...)
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}
