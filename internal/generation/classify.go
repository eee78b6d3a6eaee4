package generation

import (
	"context"
	"errors"
	"strings"

	"github.com/bhaveshbalendra/Inagiffy/internal/apperror"
)

// classifyLLMError maps a failure from the AI collaborator onto the
// domain taxonomy by inspecting its message. Domain errors pass
// through unchanged; anything unrecognized degrades to an external
// service error rather than leaking a raw cause.
func classifyLLMError(err error) *apperror.AppError {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "api key") ||
		strings.Contains(msg, "api_key") ||
		strings.Contains(msg, "credential") ||
		strings.Contains(msg, "unauthenticated") ||
		strings.Contains(msg, "permission denied"):
		return apperror.Wrap(apperror.CodeExternalService, "AI service rejected the configured credentials", err)

	case strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests"):
		return apperror.Wrap(apperror.CodeTooManyRequests, "AI service quota exceeded", err)

	case strings.Contains(msg, "network") ||
		strings.Contains(msg, "connection") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "fetch"):
		return apperror.Wrap(apperror.CodeNetwork, "Could not reach the AI service", err)

	case errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(msg, "deadline") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "timed out"):
		return apperror.Wrap(apperror.CodeExternalTimeout, "AI service timed out", err)

	default:
		return apperror.Wrap(apperror.CodeExternalService, "", err)
	}
}
