// Package apperr defines the error kinds shared by the storage gateway, the
// metadata repository and the lifecycle coordinator.
//
// Every error that leaves those layers is an *Error carrying a stable Kind and
// a message that is safe to show to a caller. The wrapped cause is kept for
// operator logs only.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindInvalidInput         Kind = "INVALID_INPUT"
	KindNotFound             Kind = "NOT_FOUND"
	KindStorageWriteFailed   Kind = "STORAGE_WRITE_FAILED"
	KindStorageDeleteFailed  Kind = "STORAGE_DELETE_FAILED"
	KindPresignFailed        Kind = "PRESIGN_FAILED"
	KindDatabase             Kind = "DATABASE_ERROR"
	KindPartialUploadFailure Kind = "PARTIAL_UPLOAD_FAILURE"
	KindInternal             Kind = "INTERNAL"
)

// Kind sentinels, usable with errors.Is.
var (
	InvalidInput         = &Error{Kind: KindInvalidInput}
	NotFound             = &Error{Kind: KindNotFound}
	StorageWriteFailed   = &Error{Kind: KindStorageWriteFailed}
	StorageDeleteFailed  = &Error{Kind: KindStorageDeleteFailed}
	PresignFailed        = &Error{Kind: KindPresignFailed}
	Database             = &Error{Kind: KindDatabase}
	PartialUploadFailure = &Error{Kind: KindPartialUploadFailure}
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New builds an error of the given kind. err may be nil.
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind only, so errors.Is(err, apperr.NotFound) holds for any
// NOT_FOUND error regardless of message or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Internal server error"
}
