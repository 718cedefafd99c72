package response

import (
	"errors"

	"github.com/fatflowers/planledger/pkg/apperr"
)

// Generic response envelope
type APIResponseCode int

const (
	APIResponseCodeOK           APIResponseCode = 0
	APIResponseCodeBadRequest   APIResponseCode = 40000
	APIResponseCodeUnauthorized APIResponseCode = 40100
	APIResponseCodeNotFound     APIResponseCode = 40400
	APIResponseCodeConflict     APIResponseCode = 40900
	APIResponseCodeError        APIResponseCode = 50000
)

var codeToMsg = map[APIResponseCode]string{
	APIResponseCodeOK:           "ok",
	APIResponseCodeBadRequest:   "bad request",
	APIResponseCodeUnauthorized: "unauthorized",
	APIResponseCodeNotFound:     "not found",
	APIResponseCodeConflict:     "conflict",
	APIResponseCodeError:        "unexpected error",
}

// APIResponse is the generic response envelope used by HTTP APIs.
// Use OKT / ErrorT helpers to construct instances.
type APIResponse[T any] struct {
	Code    APIResponseCode `json:"code"`
	Message string          `json:"message"`
	Data    T               `json:"data"`
}

// OKT returns a successful response with data.
func OKT[T any](data T) *APIResponse[T] {
	return &APIResponse[T]{Code: APIResponseCodeOK, Message: codeToMsg[APIResponseCodeOK], Data: data}
}

// ErrorT returns an error response with message and optional data.
func ErrorT[T any](code APIResponseCode, data T) *APIResponse[T] {
	return &APIResponse[T]{Code: code, Message: codeToMsg[code], Data: data}
}

// ErrorData is the payload of responses built by FromError.
type ErrorData struct {
	ErrorCode apperr.Code `json:"error_code,omitempty"`
	Error     string      `json:"error"`
}

// FromError maps a service error to the envelope. Coded errors keep their code
// string in the payload; anything else is reported as an internal error.
func FromError(err error) *APIResponse[ErrorData] {
	code, ok := apperr.CodeOf(err)
	if !ok {
		return ErrorT(APIResponseCodeError, ErrorData{Error: err.Error()})
	}
	status := APIResponseCodeError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		status = APIResponseCodeNotFound
	case errors.Is(err, apperr.ErrUnauthorized):
		status = APIResponseCodeUnauthorized
	case errors.Is(err, apperr.ErrSubscriptionAlreadyCancelled):
		status = APIResponseCodeConflict
	case errors.Is(err, apperr.ErrBadRequest), errors.Is(err, apperr.ErrInvalidArguments):
		status = APIResponseCodeBadRequest
	}
	return ErrorT(status, ErrorData{ErrorCode: code, Error: err.Error()})
}
