package errors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Domain errors
var (
	ErrValidation            = errors.New("validation failed")
	ErrConflict              = errors.New("appointment conflicts with an existing appointment")
	ErrInvalidTransition     = errors.New("invalid appointment state transition")
	ErrMissingTransitionData = errors.New("missing data required by transition")
	ErrNotFound              = errors.New("resource not found")
)

// Error codes
const (
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeConflict              = "APPOINTMENT_CONFLICT"
	ErrCodeInvalidTransition     = "INVALID_TRANSITION"
	ErrCodeMissingTransitionData = "MISSING_TRANSITION_DATA"
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeDatabaseError         = "DATABASE_ERROR"
	ErrCodeCacheError            = "CACHE_ERROR"
	ErrCodeInternal              = "INTERNAL_ERROR"
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError reports a malformed or incomplete request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrCodeValidation, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrCodeValidation, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ConflictError reports an overlap with an active appointment. The existing
// id is uuid.Nil when the storage layer rejected the write before the
// competing appointment became visible.
type ConflictError struct {
	ExistingAppointmentID uuid.UUID
}

func (e *ConflictError) Error() string {
	if e.ExistingAppointmentID == uuid.Nil {
		return fmt.Sprintf("%s: slot already taken", ErrCodeConflict)
	}
	return fmt.Sprintf("%s: overlaps appointment %s", ErrCodeConflict, e.ExistingAppointmentID)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// InvalidTransitionError reports a from/to pair outside the lifecycle table.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s is not allowed", ErrCodeInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// MissingTransitionDataError reports a transition attempted without the data it requires.
type MissingTransitionDataError struct {
	To    string
	Field string
}

func (e *MissingTransitionDataError) Error() string {
	return fmt.Sprintf("%s: %s is required to move to %s", ErrCodeMissingTransitionData, e.Field, e.To)
}

func (e *MissingTransitionDataError) Unwrap() error { return ErrMissingTransitionData }

// NotFoundError reports a reference that does not exist within the tenant.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %s not found", ErrCodeNotFound, e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func NewConflictError(existingID uuid.UUID) *ConflictError {
	return &ConflictError{ExistingAppointmentID: existingID}
}

func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func NewMissingTransitionDataError(to, field string) *MissingTransitionDataError {
	return &MissingTransitionDataError{To: to, Field: field}
}

func WrapDoctorNotFound(doctorID string) *NotFoundError {
	return &NotFoundError{Resource: "doctor", ID: doctorID}
}

func WrapPatientNotFound(patientID string) *NotFoundError {
	return &NotFoundError{Resource: "patient", ID: patientID}
}

func WrapAppointmentNotFound(appointmentID string) *NotFoundError {
	return &NotFoundError{Resource: "appointment", ID: appointmentID}
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}

// Code returns the public error code for err, falling back to INTERNAL_ERROR.
func Code(err error) string {
	var (
		validation *ValidationError
		conflict   *ConflictError
		transition *InvalidTransitionError
		missing    *MissingTransitionDataError
		notFound   *NotFoundError
		business   *BusinessError
	)
	switch {
	case errors.As(err, &validation):
		return ErrCodeValidation
	case errors.As(err, &conflict):
		return ErrCodeConflict
	case errors.As(err, &transition):
		return ErrCodeInvalidTransition
	case errors.As(err, &missing):
		return ErrCodeMissingTransitionData
	case errors.As(err, &notFound):
		return ErrCodeNotFound
	case errors.As(err, &business):
		return business.Code
	}
	return ErrCodeInternal
}
