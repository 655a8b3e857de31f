// FilePath: internal/errors/errors.go
package errors

import (
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Error types
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeIntegrity   ErrorType = "referential_integrity"
	ErrorTypeUnique      ErrorType = "unique_constraint"
	ErrorTypeDeployment  ErrorType = "deployment_conflict"
	ErrorTypeMigration   ErrorType = "migration"
	ErrorTypeDatabase    ErrorType = "database"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeInternal    ErrorType = "internal"
	ErrorTypeUnavailable ErrorType = "service_unavailable"
)

// HubError represents a structured error raised by the data core. Every
// error carries enough detail (entity, field, conflicting scope) for the
// caller to render an actionable message.
type HubError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Entity  string    `json:"entity,omitempty"`
	Field   string    `json:"field,omitempty"`
	Scope   string    `json:"scope,omitempty"`
	Details any       `json:"details,omitempty"`
	err     error     // Internal error for logging
}

// Error implements the error interface
func (e *HubError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the wrapped internal error
func (e *HubError) Unwrap() error {
	return e.err
}

// WithEntity tags the error with the entity it concerns
func (e *HubError) WithEntity(entity string) *HubError {
	e.Entity = entity
	return e
}

// WithField tags the error with the offending field
func (e *HubError) WithField(field string) *HubError {
	e.Field = field
	return e
}

// WithScope tags the error with the conflicting constraint scope
func (e *HubError) WithScope(scope string) *HubError {
	e.Scope = scope
	return e
}

// WithDetails adds additional details to the error
func (e *HubError) WithDetails(details any) *HubError {
	e.Details = details
	return e
}

// NewValidationError creates a new validation error
func NewValidationError(msg string, err error) *HubError {
	return &HubError{
		Type:    ErrorTypeValidation,
		Message: msg,
		Code:    http.StatusBadRequest,
		err:     err,
	}
}

// NewReferentialIntegrityError reports a protect-policy violation on delete:
// the parent row cannot be removed while dependent rows exist.
func NewReferentialIntegrityError(parent, blocking string, count int) *HubError {
	return &HubError{
		Type:    ErrorTypeIntegrity,
		Message: fmt.Sprintf("cannot delete %s: %d %s row(s) reference it", parent, count, blocking),
		Code:    http.StatusConflict,
		Entity:  parent,
		Details: map[string]any{"blocking_entity": blocking, "blocking_count": count},
	}
}

// NewUniqueConstraintError reports a uniqueness violation, including the
// partial-uniqueness cases scoped to active rows.
func NewUniqueConstraintError(entity, field, scope string, err error) *HubError {
	return &HubError{
		Type:    ErrorTypeUnique,
		Message: fmt.Sprintf("%s violates unique constraint on %s", entity, field),
		Code:    http.StatusConflict,
		Entity:  entity,
		Field:   field,
		Scope:   scope,
		err:     err,
	}
}

// NewDeploymentConflictError reports an overlapping active deployment window
// for the same sensor.
func NewDeploymentConflictError(sensorID, conflictingID string) *HubError {
	return &HubError{
		Type:    ErrorTypeDeployment,
		Message: fmt.Sprintf("sensor %s already has an active deployment %s in the requested window", sensorID, conflictingID),
		Code:    http.StatusConflict,
		Entity:  "sensor_deployment",
		Details: map[string]any{"sensor_id": sensorID, "conflicting_deployment": conflictingID},
	}
}

// NewMigrationError creates a migration failure; the failed migration aborts
// the remaining operations in its batch.
func NewMigrationError(migration string, err error) *HubError {
	return &HubError{
		Type:    ErrorTypeMigration,
		Message: fmt.Sprintf("migration %s failed", migration),
		Code:    http.StatusInternalServerError,
		Scope:   migration,
		err:     err,
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(msg string, err error) *HubError {
	return &HubError{
		Type:    ErrorTypeDatabase,
		Message: msg,
		Code:    http.StatusInternalServerError,
		err:     err,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(msg string, err error) *HubError {
	return &HubError{
		Type:    ErrorTypeNotFound,
		Message: msg,
		Code:    http.StatusNotFound,
		err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(msg string, err error) *HubError {
	return &HubError{
		Type:    ErrorTypeInternal,
		Message: msg,
		Code:    http.StatusInternalServerError,
		err:     err,
	}
}

func isType(err error, t ErrorType) bool {
	if hubErr, ok := err.(*HubError); ok {
		return hubErr.Type == t
	}
	return false
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool { return isType(err, ErrorTypeNotFound) }

// IsValidation checks if an error is a Validation error
func IsValidation(err error) bool { return isType(err, ErrorTypeValidation) }

// IsReferentialIntegrity checks if an error is a protect-policy violation
func IsReferentialIntegrity(err error) bool { return isType(err, ErrorTypeIntegrity) }

// IsUniqueConstraint checks if an error is a uniqueness violation
func IsUniqueConstraint(err error) bool { return isType(err, ErrorTypeUnique) }

// IsDeploymentConflict checks if an error is an overlapping-deployment rejection
func IsDeploymentConflict(err error) bool { return isType(err, ErrorTypeDeployment) }

// IsMigration checks if an error is a migration failure
func IsMigration(err error) bool { return isType(err, ErrorTypeMigration) }
