package util

import (
	"errors"
	"fmt"
)

// PageID represents a unique page identifier
type PageID uint64

// FrameID identifies an in-memory frame slot. It is opaque to the replacer.
type FrameID int

// InvalidFrameID marks "no frame".
const InvalidFrameID FrameID = -1

// ErrorType represents different types of database errors
type ErrorType int

const (
	ErrTypeNotFound ErrorType = iota
	ErrTypeInvalidArgument
	ErrTypeInvalidState
	ErrTypeResourceExhausted
)

func (t ErrorType) String() string {
	switch t {
	case ErrTypeNotFound:
		return "not found"
	case ErrTypeInvalidArgument:
		return "invalid argument"
	case ErrTypeInvalidState:
		return "invalid state"
	case ErrTypeResourceExhausted:
		return "resource exhausted"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// DatabaseError represents a database-specific error
type DatabaseError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *DatabaseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ArrayDB Error [%s]: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("ArrayDB Error [%s]: %s", e.Type, e.Message)
}

func (e *DatabaseError) Unwrap() error {
	return e.Cause
}

// NewDatabaseError creates a new database error
func NewDatabaseError(errType ErrorType, message string, cause error) *DatabaseError {
	return &DatabaseError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext attaches a key/value pair and returns the same error.
func (e *DatabaseError) WithContext(key string, value interface{}) *DatabaseError {
	e.Context[key] = value
	return e
}

// IsErrorType reports whether err wraps a DatabaseError of the given type.
func IsErrorType(err error, errType ErrorType) bool {
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		return dbErr.Type == errType
	}
	return false
}
