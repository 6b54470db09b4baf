// Package errs defines the five error kinds the search core distinguishes:
// NotFound, Validation, Conflict, Transient, and Fatal. Each kind is a
// distinct Go type so callers can dispatch with errors.As, and each
// carries an HTTPStatus for the REST surface to use directly.
package errs

import (
	"errors"
	"fmt"
	"time"
)

// NotFoundError is returned when a corpus, word, or index artifact referenced
// by id or name does not exist.
type NotFoundError struct {
	Resource string
	ID       string
	Time     time.Time
}

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id, Time: time.Now()}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) HTTPStatus() int { return 404 }

// ValidationError is returned for an empty query, an out-of-range parameter,
// or an unknown enum value.
type ValidationError struct {
	Field  string
	Reason string
	Time   time.Time
}

func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Time: time.Now()}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) HTTPStatus() int { return 422 }

// ConflictError is returned for a duplicate corpus name, a cycle in the
// corpus tree, or a version-chain violation.
type ConflictError struct {
	Kind   string // "duplicate_corpus", "cycle", "version_chain"
	Detail string
	Time   time.Time
}

func NewConflict(kind, detail string) *ConflictError {
	return &ConflictError{Kind: kind, Detail: detail, Time: time.Now()}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict (%s): %s", e.Kind, e.Detail)
}

func (e *ConflictError) HTTPStatus() int { return 409 }

// TransientError wraps a backend hiccup (cache unavailable, embedding model
// still loading) that the caller should degrade around rather than fail on.
// It never surfaces as a 5xx; the request completes with whatever matchers
// remain available.
type TransientError struct {
	Component  string
	Underlying error
	Time       time.Time
}

func NewTransient(component string, err error) *TransientError {
	return &TransientError{Component: component, Underlying: err, Time: time.Now()}
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s temporarily unavailable: %v", e.Component, e.Underlying)
}

func (e *TransientError) Unwrap() error { return e.Underlying }

func (e *TransientError) HTTPStatus() int { return 200 }

// FatalError marks a corrupted artifact or hash mismatch on load. The
// affected artifact is quarantined and the version chain is left consistent
// (last-good stays is_latest); queries fall back to lower-tier matchers.
type FatalError struct {
	Resource   string
	Underlying error
	Time       time.Time
}

func NewFatal(resource string, err error) *FatalError {
	return &FatalError{Resource: resource, Underlying: err, Time: time.Now()}
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal error on %s (quarantined): %v", e.Resource, e.Underlying)
}

func (e *FatalError) Unwrap() error { return e.Underlying }

func (e *FatalError) HTTPStatus() int { return 500 }

// HTTPStatuser is implemented by all five error kinds so the server layer
// can map any of them to a response code without a type switch.
type HTTPStatuser interface {
	error
	HTTPStatus() int
}

// StatusCode returns the HTTP status for err if it (or something it wraps)
// implements HTTPStatuser, else 500.
func StatusCode(err error) int {
	var hs HTTPStatuser
	if errors.As(err, &hs) {
		return hs.HTTPStatus()
	}
	return 500
}
