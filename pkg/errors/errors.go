package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target carries the same code, so clones still match their sentinel.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Workflow errors surfaced by the examination engine.
var (
	ErrInvalidTransition = New("INVALID_TRANSITION", http.StatusConflict, "invalid state transition")
	ErrInvalidDeadline   = New("INVALID_DEADLINE", http.StatusBadRequest, "deadline must be in the future")
	ErrInvalidTopics     = New("INVALID_TOPICS", http.StatusBadRequest, "topics are not part of the chapter")
	ErrStaleWrite        = New("STALE_WRITE", http.StatusConflict, "entity was modified, reload and retry")
	ErrNotLocked         = New("NOT_LOCKED", http.StatusConflict, "paper is not locked")
	ErrNotCompleted      = New("NOT_COMPLETED", http.StatusConflict, "chapter is not completed")
	ErrAlreadyResolved   = New("ALREADY_RESOLVED", http.StatusConflict, "risk alert already resolved")
	ErrIneligibleTest    = New("INELIGIBLE_TEST", http.StatusConflict, "test is not in an eligible state")
	ErrMakeupExists      = New("MAKEUP_EXISTS", http.StatusConflict, "an outstanding makeup test already exists")
	ErrPaperImmutable    = New("PAPER_IMMUTABLE", http.StatusConflict, "paper content can only change while in draft")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	if err.Details != nil {
		clone.Details = make(map[string]interface{}, len(err.Details))
		for k, v := range err.Details {
			clone.Details[k] = v
		}
	}
	return &clone
}

// WithDetails returns a copy of err carrying the provided details.
func WithDetails(err *Error, details map[string]interface{}) *Error {
	clone := Clone(err, "")
	if clone == nil {
		return nil
	}
	if clone.Details == nil {
		clone.Details = make(map[string]interface{}, len(details))
	}
	for k, v := range details {
		clone.Details[k] = v
	}
	return clone
}

// InvalidTransition reports a rejected state machine move for the named entity.
func InvalidTransition(entity, action, from, to string) *Error {
	msg := fmt.Sprintf("%s cannot %s from %s", entity, action, from)
	if to != "" {
		msg = fmt.Sprintf("%s cannot move from %s to %s", entity, from, to)
	}
	return WithDetails(Clone(ErrInvalidTransition, msg), map[string]interface{}{
		"entity": entity,
		"action": action,
		"from":   from,
		"to":     to,
	})
}

// StaleWrite reports an optimistic concurrency conflict.
func StaleWrite(expected, current int64) *Error {
	return WithDetails(ErrStaleWrite, map[string]interface{}{
		"expectedVersion": expected,
		"currentVersion":  current,
	})
}
