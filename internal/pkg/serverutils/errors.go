package serverutils

import (
	"fmt"
	"time"
)

// Stable machine-readable error codes.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeTenantNotFound    = "TENANT_NOT_FOUND"
	CodeRejectedGuardrail = "REJECTED_GUARDRAIL"
	CodeRejectedRateLimit = "REJECTED_RATE_LIMIT"
	CodeUpstreamError     = "UPSTREAM_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeInternal          = "INTERNAL_ERROR"
)

// AppError is the error shape the HTTP error handler knows how to map.
// Everything else becomes a 500.
type AppError struct {
	Status  int
	Code    string
	Message string
	Details map[string]interface{}
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(message string) *AppError {
	return &AppError{Status: 400, Code: CodeValidation, Message: message}
}

func NewTenantNotFoundError(tenantID string) *AppError {
	return &AppError{
		Status:  404,
		Code:    CodeTenantNotFound,
		Message: fmt.Sprintf("tenant %q is not registered", tenantID),
	}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Status: 404, Code: CodeNotFound, Message: message}
}

// NewGuardrailRejection reports which rules blocked the message and a
// suggestion the caller can surface to the user.
func NewGuardrailRejection(ruleIDs []string, suggestion string) *AppError {
	return &AppError{
		Status:  422,
		Code:    CodeRejectedGuardrail,
		Message: "message rejected by content policy",
		Details: map[string]interface{}{
			"rule_ids":   ruleIDs,
			"suggestion": suggestion,
		},
	}
}

// NewRateLimitRejection carries the wait until the current window resets.
func NewRateLimitRejection(retryAfter time.Duration) *AppError {
	return &AppError{
		Status:  429,
		Code:    CodeRejectedRateLimit,
		Message: "rate limit exceeded for this session",
		Details: map[string]interface{}{
			"retry_after_seconds": int(retryAfter.Seconds() + 0.5),
		},
	}
}
