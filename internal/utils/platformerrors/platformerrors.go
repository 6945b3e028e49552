package platformerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Layer identifies where an error was produced.
type Layer string

const (
	LayerRoute          Layer = "route"
	LayerHandler        Layer = "handler"
	LayerDomain         Layer = "domain"
	LayerRepository     Layer = "repository"
	LayerInfrastructure Layer = "infrastructure"
)

// ErrorType classifies an error for transport mapping.
type ErrorType string

const (
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeConflict       ErrorType = "conflict"
	ErrorTypeUnauthorized   ErrorType = "unauthorized"
	ErrorTypeForbidden      ErrorType = "forbidden"
	ErrorTypeDatabaseError  ErrorType = "database_error"
	ErrorTypeExternal       ErrorType = "external"
	ErrorTypeTimeout        ErrorType = "timeout"
	ErrorTypeInternal       ErrorType = "internal"
	ErrorTypeNotImplemented ErrorType = "not_implemented"
)

// PlatformError carries layer, classification and a stable instance code.
type PlatformError struct {
	Layer   Layer     `json:"layer"`
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    string    `json:"code"`
	Err     error     `json:"-"`
}

func (e *PlatformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// NewError builds a fresh PlatformError. A nil code generates one.
func NewError(_ context.Context, layer Layer, errType ErrorType, message string, err error, code string) *PlatformError {
	if code == "" {
		code = uuid.NewString()
	}
	return &PlatformError{
		Layer:   layer,
		Type:    errType,
		Message: message,
		Code:    code,
		Err:     err,
	}
}

// AsError wraps err at the given layer. Existing PlatformErrors keep their
// type and code so classification survives layer hops.
func AsError(ctx context.Context, layer Layer, err error, message string) *PlatformError {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return &PlatformError{
			Layer:   layer,
			Type:    pe.Type,
			Message: message,
			Code:    pe.Code,
			Err:     err,
		}
	}
	return NewError(ctx, layer, ErrorTypeInternal, message, err, "")
}

// IsErrorType reports whether err (or anything it wraps) carries the type.
func IsErrorType(err error, errType ErrorType) bool {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe.Type == errType
	}
	return false
}

// ErrorTypeToHTTPStatus maps the taxonomy onto response codes.
func ErrorTypeToHTTPStatus(errType ErrorType) int {
	switch errType {
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeForbidden:
		return http.StatusForbidden
	case ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	case ErrorTypeNotImplemented:
		return http.StatusNotImplemented
	case ErrorTypeDatabaseError, ErrorTypeExternal, ErrorTypeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// HTTPErrorDetail is the wire shape for a single error.
type HTTPErrorDetail struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    string    `json:"code,omitempty"`
}

// HTTPErrorResponse is the envelope handlers write on failure.
type HTTPErrorResponse struct {
	Error HTTPErrorDetail `json:"error"`
}

// NewHTTPErrorResponse converts any error into the wire envelope.
func NewHTTPErrorResponse(err error) (int, HTTPErrorResponse) {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return ErrorTypeToHTTPStatus(pe.Type), HTTPErrorResponse{
			Error: HTTPErrorDetail{Type: pe.Type, Message: pe.Message, Code: pe.Code},
		}
	}
	return http.StatusInternalServerError, HTTPErrorResponse{
		Error: HTTPErrorDetail{Type: ErrorTypeInternal, Message: err.Error()},
	}
}
