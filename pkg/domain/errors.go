package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrCodec              = errors.New("codec error")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
)

// CodecError reports a malformed backing file.
type CodecError struct {
	Entity EntityType
	Line   int
	Err    error
}

func (e CodecError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("decode %s extent: line %d: %v", e.Entity, e.Line, e.Err)
	}
	return fmt.Sprintf("decode %s extent: %v", e.Entity, e.Err)
}

func (e CodecError) Unwrap() error { return e.Err }

// Is matches ErrCodec.
func (e CodecError) Is(target error) bool { return target == ErrCodec }

// StorageUnavailable reports that the backing object could not be read or written.
type StorageUnavailable struct {
	Entity EntityType
	Op     string
	Key    string
	Err    error
}

func (e StorageUnavailable) Error() string {
	return fmt.Sprintf("%s %s extent (%s): %v", e.Op, e.Entity, e.Key, e.Err)
}

func (e StorageUnavailable) Unwrap() error { return e.Err }

// Is matches ErrStorageUnavailable.
func (e StorageUnavailable) Is(target error) bool { return target == ErrStorageUnavailable }

// FieldError names a single offending field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every missing or malformed field of a request.
type ValidationError struct {
	Entity EntityType
	Fields []FieldError
}

func (e ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Reason
	}
	subject := string(e.Entity)
	if subject == "" {
		subject = "request"
	}
	return fmt.Sprintf("invalid %s: %s", subject, strings.Join(parts, "; "))
}

// Is matches ErrValidation.
func (e ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFound reports an identity absent from the extent.
type NotFound struct {
	Entity EntityType
	ID     string
}

func (e NotFound) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// Is matches ErrNotFound.
func (e NotFound) Is(target error) bool { return target == ErrNotFound }

// AlreadyExists reports an identity collision on create.
type AlreadyExists struct {
	Entity EntityType
	ID     string
}

func (e AlreadyExists) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Entity, e.ID)
}

// Is matches ErrAlreadyExists.
func (e AlreadyExists) Is(target error) bool { return target == ErrAlreadyExists }

// Kind classifies an error for protocol adapters.
type Kind string

// Error kinds in the order adapters check them.
const (
	KindNone          Kind = ""
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindAlreadyExists Kind = "already_exists"
	KindCodec         Kind = "codec"
	KindStorage       Kind = "storage_unavailable"
	KindInternal      Kind = "internal"
)

// KindOf returns the taxonomy kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	case errors.Is(err, ErrCodec):
		return KindCodec
	case errors.Is(err, ErrStorageUnavailable):
		return KindStorage
	default:
		return KindInternal
	}
}
