package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUnsupportedType      Kind = "unsupported_type"
	KindParse                Kind = "parse"
	KindContentMismatch      Kind = "content_mismatch"
	KindImageDecode          Kind = "image_decode"
	KindTooLarge             Kind = "too_large"
	KindClipboardUnsupported Kind = "clipboard_unsupported"
	KindExport               Kind = "export"
	KindValidation           Kind = "validation"
	KindInternal             Kind = "internal"
)

type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Wrap attaches a kind to err. An err that already carries a kind is returned
// unchanged so the innermost classification wins.
func Wrap(kind Kind, op, message string, err error) error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return err
	}

	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Cause:   err,
	}
}

func New(kind Kind, op, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
	}
}

// IsKind checks whether the first classified error in the chain has kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// KindOf returns the kind of the first classified error in the chain, or
// KindInternal when nothing in the chain is classified.
func KindOf(err error) Kind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return KindInternal
}

// Message returns the user-facing message of the first classified error in
// the chain, falling back to fallback.
func Message(err error, fallback string) string {
	var target *Error
	if errors.As(err, &target) && target.Message != "" {
		return target.Message
	}
	return fallback
}
