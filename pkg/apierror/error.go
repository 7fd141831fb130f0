package apierror

import (
	"fmt"
	"strings"
)

// Error is an in-band failure reported back to a caller rather than raised.
// Errors holds granular sub-errors when several failures are aggregated.
type Error struct {
	Code    string  `json:"code"`
	Details string  `json:"details"`
	Message string  `json:"message,omitempty"`
	Errors  []Error `json:"errors,omitempty"`
}

func (e Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Details)
	}
	return e.Details
}

// New returns an Error with an empty code.
func New(details string) Error {
	return Error{Details: details}
}

func WithCode(code, details string) Error {
	return Error{Code: code, Details: details}
}

// Aggregate wraps several sub-errors under one message. The message doubles
// as the details of the aggregate.
func Aggregate(message string, errs ...Error) Error {
	sub := make([]Error, len(errs))
	copy(sub, errs)
	return Error{Details: message, Message: message, Errors: sub}
}

// Summary joins the details of every sub-error, or returns Details when there
// are none.
func (e Error) Summary() string {
	if len(e.Errors) == 0 {
		return e.Details
	}
	parts := make([]string, len(e.Errors))
	for i, sub := range e.Errors {
		parts[i] = sub.Details
	}
	return strings.Join(parts, "; ")
}

func InvalidPayload(details string) Error {
	return WithCode("invalid_payload", details)
}

func MissingTriggerID() Error {
	return WithCode("missing_trigger_id", "trigger_id is required to open a view")
}
