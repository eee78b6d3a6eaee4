package apperror

import "net/http"

// Code is a stable machine-readable identifier for an error category.
type Code string

// Error codes used across the service. Each maps 1:1 to an HTTP status
// and a default human-readable message.
const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeDuplicateKey       Code = "DUPLICATE_KEY"
	CodeTooManyRequests    Code = "TOO_MANY_REQUESTS"
	CodeDatabaseQuery      Code = "DATABASE_QUERY_ERROR"
	CodeExternalService    Code = "EXTERNAL_SERVICE_ERROR"
	CodeExternalTimeout    Code = "EXTERNAL_SERVICE_TIMEOUT"
	CodeNetwork            Code = "NETWORK_ERROR"
	CodeInternal           Code = "INTERNAL_SERVER_ERROR"
)

// HTTPStatus returns the HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicateKey:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeExternalService:
		return http.StatusBadGateway
	case CodeNetwork:
		return http.StatusServiceUnavailable
	case CodeExternalTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// DefaultMessage returns the default human-readable message for an error code.
func (c Code) DefaultMessage() string {
	switch c {
	case CodeValidation:
		return "Validation failed"
	case CodeInvalidInput:
		return "Invalid input"
	case CodeNotFound:
		return "Resource not found"
	case CodeDuplicateKey:
		return "Resource already exists"
	case CodeTooManyRequests:
		return "Too many requests"
	case CodeDatabaseQuery:
		return "Database query failed"
	case CodeExternalService:
		return "External service error"
	case CodeExternalTimeout:
		return "External service timed out"
	case CodeNetwork:
		return "Network error"
	default:
		return "An unexpected error occurred"
	}
}
