// Package errors provides custom error types for the stagehand system.
// These errors enable programmatic error checking across the document
// store, the denormalization engine, and the offline reconcilers.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the stagehand system
var (
	// ErrNotFound indicates that a requested document was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyWrite indicates a refused write of an empty document set
	ErrEmptyWrite = errors.New("empty write refused")

	// ErrBatchLimit indicates a batch exceeded the store's per-commit limit
	ErrBatchLimit = errors.New("batch limit exceeded")

	// ErrStoreClosed indicates an operation on a closed store
	ErrStoreClosed = errors.New("store closed")

	// ErrReadOnly indicates an attempt to modify a read-only store
	ErrReadOnly = errors.New("read only")
)

// NotFoundError represents an error when a document is not found
type NotFoundError struct {
	Collection string
	ID         string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document %s/%s not found", e.Collection, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(collection, id string) *NotFoundError {
	return &NotFoundError{Collection: collection, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// StoreError represents an error from a document store operation
type StoreError struct {
	Operation  string // "get", "list", "set", "delete", "commit"
	Collection string
	ID         string
	Err        error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("store %s on %s/%s: %v", e.Operation, e.Collection, e.ID, e.Err)
	}
	if e.Collection != "" {
		return fmt.Sprintf("store %s on %s: %v", e.Operation, e.Collection, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError
func NewStoreError(operation, collection, id string, err error) *StoreError {
	return &StoreError{Operation: operation, Collection: collection, ID: id, Err: err}
}

// EmptyWriteError represents a refused overwrite of a generated collection
// with an empty document set. An empty computed result is treated as a
// probable transient read failure rather than a legitimate full deletion.
type EmptyWriteError struct {
	Collection string
}

// Error implements the error interface
func (e *EmptyWriteError) Error() string {
	return fmt.Sprintf("refusing to write empty document set to collection %q", e.Collection)
}

// Is implements errors.Is support
func (e *EmptyWriteError) Is(target error) bool {
	return target == ErrEmptyWrite
}

// NewEmptyWriteError creates a new EmptyWriteError
func NewEmptyWriteError(collection string) *EmptyWriteError {
	return &EmptyWriteError{Collection: collection}
}

// BatchLimitError represents a write batch that exceeded the store's
// per-commit operation limit
type BatchLimitError struct {
	Ops   int
	Limit int
}

// Error implements the error interface
func (e *BatchLimitError) Error() string {
	return fmt.Sprintf("batch of %d operations exceeds limit of %d", e.Ops, e.Limit)
}

// Is implements errors.Is support
func (e *BatchLimitError) Is(target error) bool {
	return target == ErrBatchLimit
}

// NewBatchLimitError creates a new BatchLimitError
func NewBatchLimitError(ops, limit int) *BatchLimitError {
	return &BatchLimitError{Ops: ops, Limit: limit}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsEmptyWrite checks if an error is an empty write refusal
func IsEmptyWrite(err error) bool {
	return errors.Is(err, ErrEmptyWrite)
}

// IsBatchLimit checks if an error is a batch limit error
func IsBatchLimit(err error) bool {
	return errors.Is(err, ErrBatchLimit)
}

// WrapStore wraps an error as a StoreError
func WrapStore(operation, collection, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewStoreError(operation, collection, id, err)
}

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}
