package aggregates

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// ErrorCode classifies an aggregate failure independently of the transport that reports it.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeNotFound           ErrorCode = "not_found"
	CodeConflict           ErrorCode = "conflict"
	CodeInvariantViolation ErrorCode = "invariant_violation"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeRetryable          ErrorCode = "retryable"
	CodeInternal           ErrorCode = "internal"
)

// Error is returned by every aggregate write and by the services built on them. Message is safe to
// show callers unless it merely repeats Cause; Details holds structured context such as an
// existing plan id or an attempted points total.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		if e.Message != "" {
			b.WriteString(": ")
		}
	}
	b.WriteString(e.Message)
	if b.Len() == 0 {
		return string(e.Code)
	}
	fmt.Fprintf(&b, " (%s)", e.Code)
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error carrying the same code, so errors.Is(err, &Error{Code: CodeNotFound})
// works across wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.Code == e.Code && t.Op == "" && t.Message == ""
}

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap tags err with code. The message repeats err's text, which marks it as not caller-safe.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var aggErr *Error
	if errors.As(err, &aggErr) {
		return aggErr.Code
	}
	return ""
}

// WithDetails returns a copy of the aggregate error in err's chain with details merged in. Plain
// errors are treated as internal.
func WithDetails(err error, details map[string]any) error {
	if err == nil {
		return nil
	}
	var src *Error
	if !errors.As(err, &src) {
		src = &Error{Code: CodeInternal, Message: err.Error(), Cause: err}
	}
	out := *src
	out.Details = make(map[string]any, len(src.Details)+len(details))
	maps.Copy(out.Details, src.Details)
	maps.Copy(out.Details, details)
	return &out
}

func DetailsOf(err error) map[string]any {
	var aggErr *Error
	if errors.As(err, &aggErr) {
		return aggErr.Details
	}
	return nil
}
