package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/clinic-scheduler/internal/domain"
	"github.com/segyhp/clinic-scheduler/internal/repository"
	customError "github.com/segyhp/clinic-scheduler/pkg/errors"
)

func TestConflictGuard_Validate(t *testing.T) {
	store := repository.NewMemoryStore()
	repo := store.Appointments()
	guard := NewConflictGuard(repo)
	doctorID := uuid.New()

	existing := &domain.Appointment{
		ID:        uuid.New(),
		TenantID:  tenant,
		DoctorID:  doctorID,
		Date:      tuesday,
		StartTime: domain.NewTimeOfDay(10, 0),
		EndTime:   domain.NewTimeOfDay(10, 30),
		Estado:    domain.EstadoConfirmada,
	}
	require.NoError(t, repo.Create(context.Background(), existing))

	cancelled := &domain.Appointment{
		ID:        uuid.New(),
		TenantID:  tenant,
		DoctorID:  doctorID,
		Date:      tuesday,
		StartTime: domain.NewTimeOfDay(11, 0),
		EndTime:   domain.NewTimeOfDay(11, 30),
		Estado:    domain.EstadoCancelada,
	}
	require.NoError(t, repo.Create(context.Background(), cancelled))

	tests := []struct {
		name     string
		tenant   string
		doctor   uuid.UUID
		date     domain.Date
		start    domain.TimeOfDay
		end      domain.TimeOfDay
		exclude  *uuid.UUID
		conflict bool
	}{
		{name: "identical interval", tenant: tenant, doctor: doctorID, date: tuesday, start: domain.NewTimeOfDay(10, 0), end: domain.NewTimeOfDay(10, 30), conflict: true},
		{name: "partial overlap", tenant: tenant, doctor: doctorID, date: tuesday, start: domain.NewTimeOfDay(10, 15), end: domain.NewTimeOfDay(10, 45), conflict: true},
		{name: "enclosing", tenant: tenant, doctor: doctorID, date: tuesday, start: domain.NewTimeOfDay(9, 0), end: domain.NewTimeOfDay(11, 0), conflict: true},
		{name: "back to back before", tenant: tenant, doctor: doctorID, date: tuesday, start: domain.NewTimeOfDay(9, 30), end: domain.NewTimeOfDay(10, 0)},
		{name: "back to back after", tenant: tenant, doctor: doctorID, date: tuesday, start: domain.NewTimeOfDay(10, 30), end: domain.NewTimeOfDay(11, 0)},
		{name: "cancelled does not block", tenant: tenant, doctor: doctorID, date: tuesday, start: domain.NewTimeOfDay(11, 0), end: domain.NewTimeOfDay(11, 30)},
		{name: "excluded self", tenant: tenant, doctor: doctorID, date: tuesday, start: domain.NewTimeOfDay(10, 0), end: domain.NewTimeOfDay(10, 30), exclude: &existing.ID},
		{name: "other doctor", tenant: tenant, doctor: uuid.New(), date: tuesday, start: domain.NewTimeOfDay(10, 0), end: domain.NewTimeOfDay(10, 30)},
		{name: "other date", tenant: tenant, doctor: doctorID, date: tuesday.AddDays(7), start: domain.NewTimeOfDay(10, 0), end: domain.NewTimeOfDay(10, 30)},
		{name: "other tenant", tenant: "clinic_b", doctor: doctorID, date: tuesday, start: domain.NewTimeOfDay(10, 0), end: domain.NewTimeOfDay(10, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.Validate(context.Background(), tt.tenant, tt.doctor, tt.date, tt.start, tt.end, tt.exclude)
			if !tt.conflict {
				assert.NoError(t, err)
				return
			}
			var conflict *customError.ConflictError
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, existing.ID, conflict.ExistingAppointmentID)
		})
	}
}

func TestConflictGuard_RejectsEmptyInterval(t *testing.T) {
	guard := NewConflictGuard(repository.NewMemoryStore().Appointments())

	err := guard.Validate(context.Background(), tenant, uuid.New(), tuesday, domain.NewTimeOfDay(10, 0), domain.NewTimeOfDay(10, 0), nil)
	assert.ErrorIs(t, err, customError.ErrValidation)
}
