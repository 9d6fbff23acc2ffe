package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customError "github.com/segyhp/clinic-scheduler/pkg/errors"
)

func TestValidateStruct_CreateAppointmentRequest(t *testing.T) {
	v := NewValidator()
	valid := CreateAppointmentRequest{
		DoctorID:  uuid.NewString(),
		PatientID: uuid.NewString(),
		Date:      "2024-01-02",
		StartTime: "10:00",
		Motivo:    "control",
	}
	require.NoError(t, ValidateStruct(v, valid))

	tests := []struct {
		name  string
		edit  func(r *CreateAppointmentRequest)
		field string
	}{
		{"missing doctor", func(r *CreateAppointmentRequest) { r.DoctorID = "" }, "doctor_id"},
		{"doctor not uuid", func(r *CreateAppointmentRequest) { r.DoctorID = "42" }, "doctor_id"},
		{"bad date", func(r *CreateAppointmentRequest) { r.Date = "02/01/2024" }, "date"},
		{"bad start", func(r *CreateAppointmentRequest) { r.StartTime = "10h" }, "start_time"},
		{"start with seconds", func(r *CreateAppointmentRequest) { r.StartTime = "10:00:00" }, "start_time"},
		{"masculine estado", func(r *CreateAppointmentRequest) { r.Estado = "programado" }, "estado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.edit(&req)

			err := ValidateStruct(v, req)
			var vErr *customError.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestValidateStruct_UpdateAppointmentRequest(t *testing.T) {
	v := NewValidator()
	hyphen := "en-curso"
	canonical := "en_curso"

	assert.Error(t, ValidateStruct(v, UpdateAppointmentRequest{Estado: &hyphen}))
	assert.NoError(t, ValidateStruct(v, UpdateAppointmentRequest{Estado: &canonical}))
	assert.NoError(t, ValidateStruct(v, UpdateAppointmentRequest{}))
}
