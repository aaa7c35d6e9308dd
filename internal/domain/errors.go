package domain

import (
	"errors"
	"fmt"
)

// Kind classifies failures produced by the projection engine.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindDataSource Kind = "data_source"
)

// Error is the engine's own failure type. Failures coming from collaborators
// (locale detection, persistence) are never converted into an Error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches another *Error of the same kind with an empty message, so the
// sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Sentinels for errors.Is checks.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrDataSource = &Error{Kind: KindDataSource}
)

// NewValidationError builds a validation failure.
func NewValidationError(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError builds a lookup-miss failure.
func NewNotFoundError(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewDataSourceError builds a bundled-resource failure.
func NewDataSourceError(format string, args ...any) error {
	return &Error{Kind: KindDataSource, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the Kind of err, or "" when err is not an engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
