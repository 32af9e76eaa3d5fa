package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrQuotaExceeded is returned by a KVStore when a write does not fit in its quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// PersistError reports a collection that was accepted in memory but could not be written
// to the KVStore.
type PersistError struct {
	Key string
	Err error
}

func NewPersistError(key string, err error) error {
	return &PersistError{Key: key, Err: err}
}

func (err PersistError) Error() string {
	return fmt.Sprintf("persisting %q: %v", err.Key, err.Err)
}

func (err PersistError) Cause() error { return err.Err }

func (err PersistError) Unwrap() error { return err.Err }

// IsPersist reports whether err (or its cause) is a PersistError.
func IsPersist(err error) bool {
	var pErr *PersistError
	return errors.As(err, &pErr)
}

func IsQuotaExceeded(err error) bool {
	return errors.Cause(err) == ErrQuotaExceeded
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
