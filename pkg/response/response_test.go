package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customError "github.com/segyhp/clinic-scheduler/pkg/errors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{customError.NewValidationError("date", "bad"), http.StatusBadRequest},
		{customError.NewMissingTransitionDataError("cancelada", "cancel_reason"), http.StatusUnprocessableEntity},
		{customError.NewInvalidTransitionError("programada", "en_curso"), http.StatusConflict},
		{customError.NewConflictError(uuid.New()), http.StatusConflict},
		{customError.WrapAppointmentNotFound("x"), http.StatusNotFound},
		{customError.WrapDatabaseError(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("anything"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestFromError_ConflictCarriesExistingID(t *testing.T) {
	existing := uuid.New()
	rec := httptest.NewRecorder()

	FromError(rec, customError.NewConflictError(existing))

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, customError.ErrCodeConflict, body.Code)
	assert.Equal(t, existing.String(), body.Details["existing_appointment_id"])
}

func TestFromError_InternalHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()

	FromError(rec, customError.WrapDatabaseError(errors.New("password authentication failed")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Contains(t, rec.Body.String(), customError.ErrCodeDatabaseError)
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	called := false
	h := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/appointments", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Tenant-ID")
}
