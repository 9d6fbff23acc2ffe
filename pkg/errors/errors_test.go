package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		err      error
		sentinel error
		code     string
	}{
		{"validation", NewValidationError("start_time", "is required"), ErrValidation, ErrCodeValidation},
		{"conflict", NewConflictError(id), ErrConflict, ErrCodeConflict},
		{"invalid transition", NewInvalidTransitionError("programada", "en_curso"), ErrInvalidTransition, ErrCodeInvalidTransition},
		{"missing data", NewMissingTransitionDataError("cancelada", "cancel_reason"), ErrMissingTransitionData, ErrCodeMissingTransitionData},
		{"not found", WrapAppointmentNotFound(id.String()), ErrNotFound, ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))
			assert.Equal(t, tt.code, Code(wrapped))
		})
	}
}

func TestConflictErrorCarriesExistingID(t *testing.T) {
	id := uuid.New()
	err := fmt.Errorf("create: %w", NewConflictError(id))

	var conflict *ConflictError
	assert.True(t, errors.As(err, &conflict))
	assert.Equal(t, id, conflict.ExistingAppointmentID)
	assert.Contains(t, err.Error(), id.String())
}

func TestCode_BusinessAndUnknown(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapDatabaseError(cause)

	assert.Equal(t, ErrCodeDatabaseError, Code(err))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, ErrCodeInternal, Code(errors.New("boom")))
}
