package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors returned by the repository layer. Services translate them
// into HttpError before they reach a controller.
var (
	ErrNotFound   = errors.New("record not found")
	ErrConflict   = errors.New("record already exists")
	ErrBadRequest = errors.New("invalid request")

	ErrEmptyAuthHeader   = errors.New("authorization header is missing")
	ErrInvalidAuthHeader = errors.New("authorization header is malformed")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token has expired")
	ErrTokenNotYetValid  = errors.New("token is not valid yet")
	ErrTokenIsNotAccess  = errors.New("token is not an access token")

	ErrInvalidSigningMethod    = errors.New("unexpected token signing method")
	ErrUserIDNotFoundInContext = errors.New("user id not found in request context")
)

// HttpError is the single error envelope the controllers know how to render.
// Code is the HTTP status, Message is safe for the client, Err keeps the
// underlying cause for the logs, Details carries structured field-level
// information (missing serials, offending items and so on).
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

// The four outcome classes of the coordinator. Every operation failure is one
// of these; nothing else escapes the service layer.

func NewValidationError(message string, details interface{}) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, nil, details)
}

func NewNotFoundError(message string) *HttpError {
	return NewHttpError(http.StatusNotFound, message, ErrNotFound, nil)
}

func NewConflictError(message string, details interface{}) *HttpError {
	return &HttpError{Code: http.StatusConflict, Message: message, Err: ErrConflict, Details: details}
}

func NewInternalError(message string, err error) *HttpError {
	return NewHttpError(http.StatusInternalServerError, message, err, nil)
}

// IsValidation reports whether err is a 4xx validation outcome.
func IsValidation(err error) bool {
	var httpErr *HttpError
	return errors.As(err, &httpErr) && httpErr.Code == http.StatusBadRequest
}

func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var httpErr *HttpError
	return errors.As(err, &httpErr) && httpErr.Code == http.StatusNotFound
}

func IsConflict(err error) bool {
	if errors.Is(err, ErrConflict) {
		return true
	}
	var httpErr *HttpError
	return errors.As(err, &httpErr) && httpErr.Code == http.StatusConflict
}
