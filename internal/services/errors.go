package services

import "errors"

// ErrorKind classifies failures returned to the request handlers.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindPersistence
	KindUpload
)

// String returns the name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPersistence:
		return "persistence"
	case KindUpload:
		return "upload"
	default:
		return "unknown"
	}
}

// Error carries a user-facing message together with its kind and cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError returns an error for input that failed a validation rule.
func NewValidationError(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewPersistenceError wraps a repository failure.
func NewPersistenceError(message string, err error) error {
	return &Error{Kind: KindPersistence, Message: message, Err: err}
}

// NewUploadError wraps a failure while reading an uploaded file.
func NewUploadError(message string, err error) error {
	return &Error{Kind: KindUpload, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf returns the user-facing message of the first *Error in err's
// chain, or fallback when there is none.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
