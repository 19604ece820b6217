package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code categorizes errors.
type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodePermission Code = "PERMISSION_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeUpstream   Code = "UPSTREAM_ERROR"
	CodeInternal   Code = "INTERNAL_ERROR"
)

// AppError is the base structured error.
type AppError struct {
	Code    Code
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// ValidationError reports a malformed or missing request field.
type ValidationError struct {
	AppError
	Field string
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		AppError: AppError{Code: CodeValidation, Message: message},
		Field:    field,
	}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] field=%s: %s", e.Code, e.Field, e.Message)
}

// PermissionError is returned when premium content is requested without premium.
type PermissionError struct {
	AppError
	Resource string
}

func NewPermission(resource, message string) *PermissionError {
	return &PermissionError{
		AppError: AppError{Code: CodePermission, Message: message},
		Resource: resource,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("[%s] %s (resource=%s)", e.Code, e.Message, e.Resource)
}

// NotFoundError reports an unknown id.
type NotFoundError struct {
	AppError
	Kind string
	ID   string
}

func NewNotFound(kind, id string) *NotFoundError {
	return &NotFoundError{
		AppError: AppError{Code: CodeNotFound, Message: kind + " not found"},
		Kind:     kind,
		ID:       id,
	}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("[%s] %s %q not found", e.Code, e.Kind, e.ID)
}

// UpstreamKind distinguishes failures of the text-generation service.
type UpstreamKind int

const (
	UpstreamUnavailable UpstreamKind = iota
	UpstreamAuth
	UpstreamQuota
)

func (k UpstreamKind) String() string {
	switch k {
	case UpstreamAuth:
		return "auth"
	case UpstreamQuota:
		return "quota"
	default:
		return "unavailable"
	}
}

// UpstreamError wraps a failure of the external text-generation service.
type UpstreamError struct {
	AppError
	Kind   UpstreamKind
	Status int
}

func NewUpstream(kind UpstreamKind, status int, message string, cause error) *UpstreamError {
	return &UpstreamError{
		AppError: AppError{Code: CodeUpstream, Message: message, Cause: cause},
		Kind:     kind,
		Status:   status,
	}
}

func (e *UpstreamError) Error() string {
	base := e.AppError.Error()
	return fmt.Sprintf("%s (kind=%s, status=%d)", base, e.Kind, e.Status)
}

// As enables errors.As checks with a type parameter.
func As[T error](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if _, ok := As[*ValidationError](err); ok {
		return http.StatusBadRequest
	}
	if _, ok := As[*PermissionError](err); ok {
		return http.StatusForbidden
	}
	if _, ok := As[*NotFoundError](err); ok {
		return http.StatusNotFound
	}
	if up, ok := As[*UpstreamError](err); ok {
		switch up.Kind {
		case UpstreamAuth:
			return http.StatusUnauthorized
		case UpstreamQuota:
			return http.StatusTooManyRequests
		}
	}
	return http.StatusInternalServerError
}
