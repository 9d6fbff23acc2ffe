package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/segyhp/clinic-scheduler/internal/domain"
)

var (
	// ErrNotFound is returned when no record matches within the tenant.
	ErrNotFound = errors.New("record not found")

	// ErrSlotTaken is returned when a write would leave two active
	// appointments overlapping for the same doctor and date. The storage
	// layer enforces this independently of any service-level pre-check.
	ErrSlotTaken = errors.New("slot already taken")
)

// AppointmentRepository defines the interface for appointment data operations.
// Every method is scoped to a tenant.
type AppointmentRepository interface {
	// Create persists a new appointment
	Create(ctx context.Context, appt *domain.Appointment) error

	// GetByID retrieves an appointment by id
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Appointment, error)

	// Update overwrites the mutable fields of an appointment
	Update(ctx context.Context, appt *domain.Appointment) error

	// ListByDoctorDate returns the doctor's appointments on date ordered by start time
	ListByDoctorDate(ctx context.Context, tenantID string, doctorID uuid.UUID, date domain.Date, includeCancelled bool) ([]*domain.Appointment, error)

	// ListOpenBefore returns programada and confirmada appointments dated strictly before date
	ListOpenBefore(ctx context.Context, tenantID string, date domain.Date) ([]*domain.Appointment, error)
}

// DoctorRepository defines the interface for doctor and weekly template operations.
type DoctorRepository interface {
	// GetByID retrieves a doctor with its schedule template
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Doctor, error)

	// ReplaceSchedule swaps the doctor's whole template atomically
	ReplaceSchedule(ctx context.Context, tenantID string, doctorID uuid.UUID, windows []domain.ScheduleWindow) error

	// ListTenants returns every tenant that owns at least one doctor
	ListTenants(ctx context.Context) ([]string, error)
}

// PatientRepository defines the interface for patient lookups.
type PatientRepository interface {
	Exists(ctx context.Context, tenantID string, id uuid.UUID) (bool, error)
}
