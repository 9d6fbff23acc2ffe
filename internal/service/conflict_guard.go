package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/segyhp/clinic-scheduler/internal/domain"
	"github.com/segyhp/clinic-scheduler/internal/repository"
	customError "github.com/segyhp/clinic-scheduler/pkg/errors"
)

// ConflictGuard rejects intervals that overlap an active appointment of the
// same doctor on the same date. It reads fresh data on every call.
type ConflictGuard struct {
	appointments repository.AppointmentRepository
}

func NewConflictGuard(appointments repository.AppointmentRepository) *ConflictGuard {
	return &ConflictGuard{appointments: appointments}
}

// Validate returns a ConflictError naming the first overlapping appointment.
// exclude skips the appointment being rescheduled.
func (g *ConflictGuard) Validate(ctx context.Context, tenantID string, doctorID uuid.UUID, date domain.Date, start, end domain.TimeOfDay, exclude *uuid.UUID) error {
	if !start.Valid() || !end.Valid() || start >= end {
		return customError.NewValidationError("end_time", "end_time must be after start_time")
	}

	existing, err := g.appointments.ListByDoctorDate(ctx, tenantID, doctorID, date, false)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	candidate := domain.TimeInterval{Start: start, End: end}
	for _, appt := range existing {
		if exclude != nil && appt.ID == *exclude {
			continue
		}
		if !appt.Estado.OccupiesSlot() {
			continue
		}
		// Half-open intervals: back-to-back bookings do not collide
		if appt.Interval().Overlaps(candidate) {
			return customError.NewConflictError(appt.ID)
		}
	}
	return nil
}
