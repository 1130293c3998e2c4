/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package tools

import (
	"errors"
	"fmt"

	"oceanbase-mcp/internal/database"
	"oceanbase-mcp/internal/models"
	"oceanbase-mcp/internal/resultset"
	"oceanbase-mcp/internal/search"
)

// ValidationError is a user-facing configuration error: missing or invalid
// parameters, credentials, options or formats. It is reported as an isError
// tool response rather than a protocol error.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with a formatted message
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// CredentialValidationError is returned when the database credentials fail
// the connectivity probe
type CredentialValidationError struct {
	Err error
}

func (e *CredentialValidationError) Error() string {
	return e.Err.Error()
}

func (e *CredentialValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is, or wraps, a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// asValidationError converts the request-level errors of the lower layers
// into ValidationErrors carrying their user-facing message. Other errors
// are returned unchanged.
func asValidationError(err error, format string) error {
	if err == nil {
		return nil
	}

	var reqErr *search.RequestError
	switch {
	case IsValidationError(err):
		return err
	case errors.As(err, &reqErr):
		return &ValidationError{Message: reqErr.Message}
	case errors.Is(err, database.ErrInvalidOptions):
		return &ValidationError{Message: "Invalid JSON format for Connect Config"}
	case errors.Is(err, database.ErrNotReadOnly):
		return &ValidationError{Message: database.ErrNotReadOnly.Error()}
	case errors.Is(err, search.ErrUnsupportedFormat):
		return NewValidationError("Unsupported format: %s. Supported formats: json, md", format)
	case errors.Is(err, resultset.ErrUnsupportedFormat):
		return NewValidationError("Unsupported format: %s", format)
	case errors.Is(err, models.ErrInvalidModelConfig):
		return &ValidationError{Message: err.Error()}
	}
	return err
}
