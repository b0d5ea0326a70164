// Package errors provides structured error handling for the catalog module.
// Repositories and the service wrap failures in a CatalogError whose Type
// drives the HTTP status chosen by the api package.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies catalog failures
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeReference  ErrorType = "reference"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypeStorage    ErrorType = "storage"
	ErrorTypeInternal   ErrorType = "internal"
)

// Sentinel errors for common scenarios
var (
	ErrNotFound          = errors.New("record not found")
	ErrURLTaken          = errors.New("url already in use")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidReference  = errors.New("invalid reference")
	ErrDatabaseOperation = errors.New("database operation failed")
	ErrUnsupportedUpload = errors.New("unsupported upload")
)

// CatalogError carries the failing operation and the record it concerned
type CatalogError struct {
	Type   ErrorType
	Op     string
	Entity string
	Key    string
	Field  string
	Err    error
	Fields map[string]string
}

func (e *CatalogError) Error() string {
	if e.Entity != "" && e.Key != "" {
		return fmt.Sprintf("%s error in %s [%s=%s]: %v", e.Type, e.Op, e.Entity, e.Key, e.Err)
	}
	return fmt.Sprintf("%s error in %s: %v", e.Type, e.Op, e.Err)
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

// New creates a new CatalogError
func New(errType ErrorType, op string, err error) *CatalogError {
	return &CatalogError{Type: errType, Op: op, Err: err}
}

// WithRecord names the entity and its lookup key
func (e *CatalogError) WithRecord(entity string, key interface{}) *CatalogError {
	e.Entity = entity
	e.Key = fmt.Sprint(key)
	return e
}

// WithField names the offending input field
func (e *CatalogError) WithField(field string) *CatalogError {
	e.Field = field
	return e
}

// WithFields attaches per-field validation messages
func (e *CatalogError) WithFields(fields map[string]string) *CatalogError {
	e.Fields = fields
	return e
}

func NotFound(op, entity string, key interface{}) *CatalogError {
	return New(ErrorTypeNotFound, op, ErrNotFound).WithRecord(entity, key)
}

func Conflict(op, entity, field string, value interface{}) *CatalogError {
	return New(ErrorTypeConflict, op, ErrURLTaken).WithRecord(entity, value).WithField(field)
}

func Validation(op string, err error) *CatalogError {
	return New(ErrorTypeValidation, op, err)
}

// Reference reports a foreign key that points at a missing or mismatched record
func Reference(op, field, msg string) *CatalogError {
	return New(ErrorTypeReference, op, fmt.Errorf("%w: %s", ErrInvalidReference, msg)).WithField(field)
}

func Database(op string, err error) *CatalogError {
	return New(ErrorTypeDatabase, op, fmt.Errorf("%w: %v", ErrDatabaseOperation, err))
}

func Storage(op string, err error) *CatalogError {
	return New(ErrorTypeStorage, op, err)
}

// GetType extracts the error type from an error
func GetType(err error) ErrorType {
	var cErr *CatalogError
	if errors.As(err, &cErr) {
		return cErr.Type
	}
	return ErrorTypeInternal
}

// IsNotFound reports whether err is a not-found CatalogError
func IsNotFound(err error) bool {
	return GetType(err) == ErrorTypeNotFound
}
