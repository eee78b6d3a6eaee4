// Package resilient provides a retrying request client that absorbs
// slow or cold-starting backends. Failures from any transport are
// normalized into a single presentable error shape before retry
// decisions are made.
package resilient

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Kind classifies a normalized error. The kind fully determines
// retry eligibility.
type Kind string

// Error kinds, in classification precedence order.
const (
	KindNetwork     Kind = "network"
	KindUpstreamAPI Kind = "upstream_api"
	KindValidation  Kind = "validation"
	KindUnknown     Kind = "unknown"
)

// FallbackMessage is used when no message can be extracted from a failure.
const FallbackMessage = "An unexpected error occurred"

// HTTPError is the recognized HTTP response envelope shape: a non-2xx
// response with an optional parsed error body. Transports that receive
// an error status should return one of these.
type HTTPError struct {
	StatusCode int
	Message    string     // top-level message, if the transport set one
	Reason     string     // top-level error field, if the transport set one
	Body       *ErrorBody // parsed response body, if any
}

// ErrorBody is the parsed JSON body of an error response.
type ErrorBody struct {
	Message string `json:"message"`
	Reason  string `json:"error"`
}

func (e *HTTPError) Error() string {
	msg := e.extractMessage()
	if msg == FallbackMessage {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, msg)
}

// extractMessage applies the message precedence: body message, body error,
// direct message, direct error, then the generic fallback.
func (e *HTTPError) extractMessage() string {
	if e.Body != nil {
		if e.Body.Message != "" {
			return e.Body.Message
		}
		if e.Body.Reason != "" {
			return e.Body.Reason
		}
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Reason != "" {
		return e.Reason
	}
	return FallbackMessage
}

// FieldViolation is a single field-level validation failure.
type FieldViolation struct {
	Field   string
	Message string
}

// FieldViolations is the recognized shape produced by the schema
// validation layer.
type FieldViolations struct {
	Violations []FieldViolation
}

func (e *FieldViolations) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Field != "" {
			parts = append(parts, v.Field+": "+v.Message)
			continue
		}
		parts = append(parts, v.Message)
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}

// NormalizedError is the canonical, presentation-safe error record
// produced regardless of a failure's original shape.
type NormalizedError struct {
	Kind    Kind
	Message string
	Status  int // HTTP status for KindUpstreamAPI, zero otherwise
	Cause   error
}

func (e *NormalizedError) Error() string {
	return e.Message
}

func (e *NormalizedError) Unwrap() error {
	return e.Cause
}

// typePrefixes are exception-type prefixes that upstream services leak
// into messages. They are stripped so messages stay human-presentable.
var typePrefixes = []string{
	"Error:",
	"TypeError:",
	"SyntaxError:",
	"RangeError:",
	"ReferenceError:",
	"URIError:",
	"EvalError:",
}

// CleanMessage strips known exception-type prefixes and surrounding
// whitespace. It is idempotent: cleaning an already-clean message is
// a no-op.
func CleanMessage(msg string) string {
	msg = strings.TrimSpace(msg)
	for {
		stripped := false
		for _, prefix := range typePrefixes {
			if strings.HasPrefix(msg, prefix) {
				msg = strings.TrimSpace(strings.TrimPrefix(msg, prefix))
				stripped = true
			}
		}
		if !stripped {
			return msg
		}
	}
}

// Normalize classifies an arbitrary failure into a NormalizedError.
// It recognizes a sealed set of input shapes: transport errors
// (net.Error, url.Error), HTTP response envelopes (HTTPError), and
// validation failures (FieldViolations); anything else is Unknown.
// Normalize is total: it never panics and accepts nil.
func Normalize(err error) *NormalizedError {
	if err == nil {
		return &NormalizedError{Kind: KindUnknown, Message: FallbackMessage}
	}

	var httpErr *HTTPError
	var violations *FieldViolations
	hasStatus := errors.As(err, &httpErr) && httpErr.StatusCode >= 400 && httpErr.StatusCode < 600
	isValidation := errors.As(err, &violations)

	message := CleanMessage(err.Error())
	if hasStatus {
		message = CleanMessage(httpErr.extractMessage())
	}
	if message == "" {
		message = FallbackMessage
	}

	// Network beats everything else, including HTTP envelopes whose
	// message points at a connectivity problem.
	if isNetworkError(err) || isNetworkMessage(message) {
		return &NormalizedError{Kind: KindNetwork, Message: message, Cause: err}
	}

	if hasStatus {
		if message == FallbackMessage {
			message = defaultStatusMessage(httpErr.StatusCode)
		}
		return &NormalizedError{
			Kind:    KindUpstreamAPI,
			Message: message,
			Status:  httpErr.StatusCode,
			Cause:   err,
		}
	}

	if isValidation {
		return &NormalizedError{Kind: KindValidation, Message: message, Cause: err}
	}

	return &NormalizedError{Kind: KindUnknown, Message: message, Cause: err}
}

// isNetworkError reports whether err is an explicit transport-level
// failure.
func isNetworkError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// isNetworkMessage reports whether a message describes a connectivity
// failure.
func isNetworkMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "network") ||
		strings.Contains(lower, "failed to fetch") ||
		strings.Contains(lower, "fetch failed")
}

// defaultStatusMessage maps an HTTP status to a human-presentable
// default. Used only when the upstream provided no usable message.
func defaultStatusMessage(status int) string {
	switch {
	case status == 400:
		return "invalid request"
	case status == 401:
		return "unauthorized"
	case status == 403:
		return "forbidden"
	case status == 404:
		return "not found"
	case status == 429:
		return "too many requests"
	case status >= 500:
		return "server error"
	default:
		return FallbackMessage
	}
}
