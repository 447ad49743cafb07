package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestMissingInputError(t *testing.T) {
	err := NewMissingInputError("cipher.bin", fs.ErrNotExist)

	// Test error message
	expectedMsg := "input file 'cipher.bin' is unavailable: file does not exist"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	// Test Is() method
	if !errors.Is(err, ErrMissingInput) {
		t.Error("Expected error to match ErrMissingInput sentinel")
	}

	// The underlying cause stays reachable
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("Expected error to unwrap to fs.ErrNotExist")
	}

	if errors.Is(err, ErrInvalidKeyLength) {
		t.Error("Error should not match ErrInvalidKeyLength")
	}
}

func TestMissingInputErrorWithoutCause(t *testing.T) {
	err := NewMissingInputError("words.txt", nil)

	expectedMsg := "input file 'words.txt' is unavailable"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}
}

func TestInvalidKeyLengthError(t *testing.T) {
	err := NewInvalidKeyLengthError(3)

	expectedMsg := "key must be exactly 2 characters, got 3"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrInvalidKeyLength) {
		t.Error("Expected error to match ErrInvalidKeyLength sentinel")
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("Expected error to match ErrInvalidInput sentinel")
	}
}

func TestInvalidKeyError(t *testing.T) {
	err := NewInvalidKeyError(1, '€')

	expectedMsg := "key character '€' at position 1 is outside the single-byte range"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrInvalidKey) {
		t.Error("Expected error to match ErrInvalidKey sentinel")
	}
	if errors.Is(err, ErrInvalidKeyLength) {
		t.Error("Error should not match ErrInvalidKeyLength")
	}
}

func TestJobNotFoundError(t *testing.T) {
	jobID := "job-456"
	err := NewJobNotFoundError(jobID)

	expectedMsg := "job with ID 'job-456' not found"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrJobNotFound) {
		t.Error("Expected error to match ErrJobNotFound sentinel")
	}
}

func TestResultNotFoundError(t *testing.T) {
	err := NewResultNotFoundError("job-1")

	expectedMsg := "no result available for job 'job-1'"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrResultNotFound) {
		t.Error("Expected error to match ErrResultNotFound sentinel")
	}
}

func TestValidationError(t *testing.T) {
	// Test with field
	err := NewValidationError("strategy", "unknown scoring strategy")
	expectedMsg := "validation error for field 'strategy': unknown scoring strategy"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	// Test without field
	err2 := NewValidationError("", "general validation failure")
	expectedMsg2 := "validation error: general validation failure"
	if err2.Error() != expectedMsg2 {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg2, err2.Error())
	}

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("Expected error to match ErrInvalidInput sentinel")
	}
}

func TestErrorWrapping(t *testing.T) {
	originalErr := NewMissingInputError("dictionary.txt", nil)
	wrappedErr := fmt.Errorf("failed to load word lists: %w", originalErr)

	if !errors.Is(wrappedErr, ErrMissingInput) {
		t.Error("Expected wrapped error to match ErrMissingInput sentinel")
	}

	var missing *MissingInputError
	if !errors.As(wrappedErr, &missing) {
		t.Fatal("Expected errors.As to extract MissingInputError")
	}
	if missing.Path != "dictionary.txt" {
		t.Errorf("Expected path 'dictionary.txt', got '%s'", missing.Path)
	}
}
