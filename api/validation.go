// Package api provides validation utilities for API request handling.
package api

import (
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gcbaptista/go-xor-breaker/internal/scoring"
	"github.com/gcbaptista/go-xor-breaker/internal/xorcipher"
	"github.com/gcbaptista/go-xor-breaker/model"
	"github.com/gcbaptista/go-xor-breaker/services"
)

// maxWorkers caps per-request parallelism; the search has 256 rows to share.
const maxWorkers = 256

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateJobID validates a job ID path parameter
func ValidateJobID(jobID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if jobID == "" {
		result.AddError("jobId", "Job ID is required")
		return result
	}

	if _, err := uuid.Parse(jobID); err != nil {
		result.AddError("jobId", "Job ID must be a UUID")
	}

	return result
}

// ValidateCrackOptions validates per-request search overrides
func ValidateCrackOptions(opts services.CrackOptions) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if opts.Strategy != "" {
		if _, err := scoring.Lookup(opts.Strategy); err != nil {
			result.AddError("strategy", "Strategy must be one of: "+strings.Join(scoring.Strategies(), ", "))
		}
	}

	if opts.Workers < 0 || opts.Workers > maxWorkers {
		result.AddError("workers", "Workers must be between 0 and 256")
	}

	if opts.EarlyStopScore != nil && (opts.EarlyStop == nil || !*opts.EarlyStop) {
		result.AddError("early_stop_score", "early_stop_score requires early_stop to be true")
	}

	return result
}

// ValidateKey validates a two-character cipher key
func ValidateKey(key string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if key == "" {
		result.AddError("key", "Key is required")
		return result
	}

	if n := utf8.RuneCountInString(key); n != xorcipher.KeySize {
		result.AddError("key", "Key must be exactly 2 characters")
		return result
	}

	if _, err := xorcipher.ParseKey(key); err != nil {
		result.AddError("key", err.Error())
	}

	return result
}

// ValidateKeyInput resolves a request key given either as two characters
// (key) or as 4 hex digits (key_hex).
func ValidateKeyInput(key, keyHex string) (xorcipher.Key, *ValidationResult) {
	if keyHex == "" {
		result := ValidateKey(key)
		if result.HasErrors() {
			return xorcipher.Key{}, result
		}
		k, _ := xorcipher.ParseKey(key) // already validated
		return k, result
	}

	result := &ValidationResult{Valid: true}
	if key != "" {
		result.AddError("key_hex", "Set either key or key_hex, not both")
		return xorcipher.Key{}, result
	}
	k, err := xorcipher.ParseHexKey(keyHex)
	if err != nil {
		result.AddError("key_hex", "key_hex must be exactly 4 hex digits")
	}
	return k, result
}

// ValidateStatusFilter validates the optional ?status= job filter
func ValidateStatusFilter(status string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	switch model.JobStatus(status) {
	case "", model.JobStatusPending, model.JobStatusRunning, model.JobStatusCompleted,
		model.JobStatusFailed, model.JobStatusCancelling, model.JobStatusCancelled:
	default:
		result.AddError("status", "Unknown job status '"+status+"'")
	}

	return result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}
