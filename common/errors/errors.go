package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies an application error.
type Kind string

const (
	KindInvalidInput          Kind = "invalid_input"
	KindNotFound              Kind = "not_found"
	KindConflict              Kind = "conflict"
	KindAuthFailure           Kind = "auth_failure"
	KindExternalService       Kind = "external_service_error"
	KindInternalInconsistency Kind = "internal_inconsistency"
	KindInternal              Kind = "internal"
)

// Error represents an application error
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error with the HTTP status implied by its kind.
func New(kind Kind, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Code:    statusFor(kind),
		Message: message,
		Err:     err,
	}
}

func statusFor(kind Kind) int {
	switch kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindAuthFailure:
		return http.StatusUnauthorized
	case KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Convenience constructors used across services.
func InvalidInput(message string, err error) *Error {
	return New(KindInvalidInput, message, err)
}

func NotFound(message string, err error) *Error {
	return New(KindNotFound, message, err)
}

func Conflict(message string, err error) *Error {
	return New(KindConflict, message, err)
}

func AuthFailure(message string, err error) *Error {
	return New(KindAuthFailure, message, err)
}

func ExternalService(message string, err error) *Error {
	return New(KindExternalService, message, err)
}

func InternalInconsistency(message string, err error) *Error {
	return New(KindInternalInconsistency, message, err)
}

func Internal(message string, err error) *Error {
	return New(KindInternal, message, err)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := err.(*Error)
	return ok && appErr.Kind == kind
}

// ErrorMiddleware maps errors attached to the gin context to responses.
// Handlers report failures with c.Error; the last attached error decides
// the response, and anything untyped is masked as a 500.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			appErr := from(c.Errors.Last().Err)
			c.JSON(appErr.Code, appErr)
			c.Abort()
		}
	}
}

func from(err error) *Error {
	if appErr, ok := err.(*Error); ok {
		return appErr
	}
	return &Error{
		Kind:    KindInternal,
		Code:    http.StatusInternalServerError,
		Message: "Internal server error",
		Err:     err,
	}
}
