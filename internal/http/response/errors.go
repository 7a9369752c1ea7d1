package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lifewheel-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/lifewheel-backend/internal/domain/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/platform/apierr"
	"github.com/yungbote/lifewheel-backend/internal/platform/validate"
)

const (
	msgInternal  = "internal server error"
	msgRetryable = "service temporarily unavailable, please retry"
)

var genericByCode = map[domainagg.ErrorCode]string{
	domainagg.CodeValidation:         "request violates a data constraint",
	domainagg.CodeNotFound:           "resource not found",
	domainagg.CodeConflict:           "resource already exists",
	domainagg.CodeInvariantViolation: "request conflicts with the current state",
	domainagg.CodePreconditionFailed: "a referenced resource is missing or not ready",
}

// Classify turns any error into the status and body a caller may see.
func Classify(err error) (int, APIError) {
	if err == nil {
		return http.StatusInternalServerError, APIError{Message: msgInternal, Code: string(domainagg.CodeInternal)}
	}
	if verr, ok := validate.As(err); ok {
		details := make(map[string]any, len(verr.Fields))
		for k, v := range verr.Fields {
			details[k] = v
		}
		return http.StatusBadRequest, APIError{
			Message: "validation failed",
			Code:    string(domainagg.CodeValidation),
			Details: details,
		}
	}
	if apiErr, ok := apierr.As(err); ok {
		status := apiErr.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		msg := apiErr.Error()
		if status >= http.StatusInternalServerError {
			msg = msgInternal
		}
		return status, APIError{Message: msg, Code: apiErr.Code, Details: apiErr.Details}
	}
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		return StatusForCode(aggErr.Code), APIError{
			Message: publicMessage(aggErr),
			Code:    string(aggErr.Code),
			Details: aggErr.Details,
		}
	}
	return http.StatusInternalServerError, APIError{Message: msgInternal, Code: string(domainagg.CodeInternal)}
}

func StatusForCode(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation, domainagg.CodePreconditionFailed:
		return http.StatusBadRequest
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeConflict, domainagg.CodeInvariantViolation:
		return http.StatusConflict
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage keeps messages written by domain code and replaces driver text with a generic one.
func publicMessage(e *domainagg.Error) string {
	switch e.Code {
	case domainagg.CodeInternal, "":
		return msgInternal
	case domainagg.CodeRetryable:
		return msgRetryable
	}
	if e.Cause != nil && isSentinel(e.Cause) {
		lines := strings.Split(strings.TrimSpace(e.Cause.Error()), "\n")
		return strings.TrimSpace(lines[len(lines)-1])
	}
	if e.Cause != nil && e.Message == strings.TrimSpace(e.Cause.Error()) {
		return genericByCode[e.Code]
	}
	if e.Message == "" {
		return genericByCode[e.Code]
	}
	return e.Message
}

func isSentinel(err error) bool {
	return errors.Is(err, aggregates.ErrValidation) ||
		errors.Is(err, aggregates.ErrInvariant) ||
		errors.Is(err, aggregates.ErrConflict) ||
		errors.Is(err, aggregates.ErrPrecondition)
}

// Error writes the categorized envelope for err and aborts the chain.
func Error(c *gin.Context, err error) {
	status, body := Classify(err)
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: body})
}
