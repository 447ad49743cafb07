package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrMissingInput is returned when an input or word-list file cannot be read
	ErrMissingInput = errors.New("missing input")

	// ErrInvalidKeyLength is returned when a literal key is not exactly 2 characters
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrInvalidKey is returned when a literal key contains a character outside a single byte
	ErrInvalidKey = errors.New("invalid key")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrResultNotFound is returned when no crack result exists for a job
	ErrResultNotFound = errors.New("result not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// MissingInputError represents an unreadable input file with context
type MissingInputError struct {
	Path string
	Err  error
}

func (e *MissingInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("input file '%s' is unavailable: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("input file '%s' is unavailable", e.Path)
}

func (e *MissingInputError) Is(target error) bool {
	return target == ErrMissingInput
}

func (e *MissingInputError) Unwrap() error {
	return e.Err
}

// NewMissingInputError creates a new MissingInputError
func NewMissingInputError(path string, err error) *MissingInputError {
	return &MissingInputError{Path: path, Err: err}
}

// InvalidKeyLengthError represents a key of the wrong length
type InvalidKeyLengthError struct {
	Length int
}

func (e *InvalidKeyLengthError) Error() string {
	return fmt.Sprintf("key must be exactly 2 characters, got %d", e.Length)
}

func (e *InvalidKeyLengthError) Is(target error) bool {
	return target == ErrInvalidKeyLength || target == ErrInvalidInput
}

// NewInvalidKeyLengthError creates a new InvalidKeyLengthError
func NewInvalidKeyLengthError(length int) *InvalidKeyLengthError {
	return &InvalidKeyLengthError{Length: length}
}

// InvalidKeyError represents a key character that does not fit in one byte
type InvalidKeyError struct {
	Position int
	Char     rune
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("key character %q at position %d is outside the single-byte range", e.Char, e.Position)
}

func (e *InvalidKeyError) Is(target error) bool {
	return target == ErrInvalidKey || target == ErrInvalidInput
}

// NewInvalidKeyError creates a new InvalidKeyError
func NewInvalidKeyError(position int, char rune) *InvalidKeyError {
	return &InvalidKeyError{Position: position, Char: char}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// ResultNotFoundError represents a missing crack result for a job
type ResultNotFoundError struct {
	JobID string
}

func (e *ResultNotFoundError) Error() string {
	return fmt.Sprintf("no result available for job '%s'", e.JobID)
}

func (e *ResultNotFoundError) Is(target error) bool {
	return target == ErrResultNotFound
}

// NewResultNotFoundError creates a new ResultNotFoundError
func NewResultNotFoundError(jobID string) *ResultNotFoundError {
	return &ResultNotFoundError{JobID: jobID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
