// Package apperr defines the closed set of error kinds the API surfaces.
// Every failure a controller reports is one of these kinds; unrecognized
// errors collapse into Unknown so internal detail never reaches a client.
package apperr

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// Kind identifies a failure category.
type Kind int

const (
	Unknown Kind = iota
	ValidationFailed
	InvalidReference
	NotFound
	ProductNotSellable
	DisallowedField
	DuplicateKey
)

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a tagged application error. Fields holds the full ordered
// validation result; the boundary surfaces only the first message.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 {
		return e.Fields[0].Message
	}
	return "unknown error"
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an error of the given kind with a caller-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches an underlying cause without exposing its text to callers.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Validation builds a ValidationFailed error carrying the full ordered
// field list. The surfaced message is the first field's message.
func Validation(fields []FieldError) *Error {
	msg := "validation failed"
	if len(fields) > 0 {
		msg = fields[0].Message
	}
	return &Error{Kind: ValidationFailed, Message: msg, Fields: fields}
}

// KindOf extracts the kind from err, or Unknown for anything foreign.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Unknown
}

// FromMongo classifies a mongo-driver error. notFoundMsg is the message
// used when the driver reports no matching document.
func FromMongo(err error, notFoundMsg string) *Error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return Wrap(NotFound, notFoundMsg, err)
	case mongo.IsDuplicateKeyError(err):
		return Wrap(DuplicateKey, "already registered", err)
	default:
		return Wrap(Unknown, "unknown error", err)
	}
}
