package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of an inner AppError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError in the chain, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err carries the given code
func HasCode(err error, code string) bool {
	return err != nil && GetCode(err) == code
}

// Predefined error codes
const (
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeValidationError   = "VALIDATION_ERROR"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeExternalService   = "EXTERNAL_SERVICE_ERROR"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	CodeSchemaIncomplete  = "SCHEMA_INCOMPLETE"
	CodeEntityNotFound    = "ENTITY_NOT_FOUND"
	CodeRenderFailure     = "RENDER_FAILURE"
	CodeCredentialMissing = "CREDENTIAL_MISSING"
	CodeCredentialInvalid = "CREDENTIAL_INVALID"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// SourceUnavailable reports a row source that could not be reached or produced no rows
func SourceUnavailable(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeSourceUnavailable,
		Message: message,
		Cause:   cause,
	}
}

// SchemaIncomplete lists expected columns that are absent after normalization
func SchemaIncomplete(fields []string) *AppError {
	return New(CodeSchemaIncomplete, fmt.Sprintf("missing columns: %s", strings.Join(fields, ", ")))
}

// EntityNotFound reports a requested entity with no matching record
func EntityNotFound(kind, name string) *AppError {
	return New(CodeEntityNotFound, fmt.Sprintf("%s %q not found", kind, name))
}

func RenderFailure(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeRenderFailure,
		Message: message,
		Cause:   cause,
	}
}

func CredentialMissing(message string) *AppError {
	return New(CodeCredentialMissing, message)
}

func CredentialInvalid(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeCredentialInvalid,
		Message: message,
		Cause:   cause,
	}
}

// HTTPStatus maps an error code to the status the UI answers with
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case CodeInvalidInput, CodeValidationError, CodeCredentialInvalid:
		return http.StatusBadRequest
	case CodeEntityNotFound:
		return http.StatusNotFound
	case CodeSchemaIncomplete:
		return http.StatusUnprocessableEntity
	case CodeSourceUnavailable, CodeExternalService:
		return http.StatusBadGateway
	case CodeCredentialMissing:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}
