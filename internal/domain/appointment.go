package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	customError "github.com/segyhp/clinic-scheduler/pkg/errors"
)

// Estado is the lifecycle state of an appointment.
type Estado string

const (
	EstadoProgramada Estado = "programada"
	EstadoConfirmada Estado = "confirmada"
	EstadoEnCurso    Estado = "en_curso"
	EstadoCompletada Estado = "completada"
	EstadoCancelada  Estado = "cancelada"
	EstadoNoAsistio  Estado = "no_asistio"
)

var estados = map[Estado]bool{
	EstadoProgramada: true,
	EstadoConfirmada: true,
	EstadoEnCurso:    true,
	EstadoCompletada: true,
	EstadoCancelada:  true,
	EstadoNoAsistio:  true,
}

// ParseEstado accepts only the canonical spellings. Variants such as
// "programado" or "en-curso" are rejected rather than normalised.
func ParseEstado(s string) (Estado, error) {
	e := Estado(s)
	if !estados[e] {
		return "", customError.NewValidationError("estado", fmt.Sprintf("unknown estado %q", s))
	}
	return e, nil
}

func (e Estado) Valid() bool { return estados[e] }

// Terminal states accept no further transitions.
func (e Estado) Terminal() bool {
	return e == EstadoCompletada || e == EstadoCancelada || e == EstadoNoAsistio
}

// OccupiesSlot reports whether an appointment in this state blocks its interval.
func (e Estado) OccupiesSlot() bool {
	return e != EstadoCancelada
}

// Reschedulable states allow date/time changes.
func (e Estado) Reschedulable() bool {
	return e == EstadoProgramada || e == EstadoConfirmada
}

func (e Estado) String() string { return string(e) }

// Appointment is the unit of booking and conflict detection.
type Appointment struct {
	ID           uuid.UUID `json:"id"`
	TenantID     string    `json:"tenant_id"`
	DoctorID     uuid.UUID `json:"doctor_id"`
	PatientID    uuid.UUID `json:"patient_id"`
	Date         Date      `json:"date"`
	StartTime    TimeOfDay `json:"start_time"`
	EndTime      TimeOfDay `json:"end_time"`
	Estado       Estado    `json:"estado"`
	Motivo       string    `json:"motivo,omitempty"`
	Payment      *Payment  `json:"payment,omitempty"`
	CancelReason string    `json:"cancel_reason,omitempty"`

	ConsultationStartedAt *time.Time `json:"consultation_started_at,omitempty"`
	ConsultationEndedAt   *time.Time `json:"consultation_ended_at,omitempty"`
	RecordLinkEligible    bool       `json:"record_link_eligible"`

	CreatedAt   time.Time  `json:"created_at"`
	CreatedBy   string     `json:"created_by,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
	UpdatedBy   string     `json:"updated_by,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

func (a *Appointment) Interval() TimeInterval {
	return TimeInterval{Start: a.StartTime, End: a.EndTime}
}

// Clone returns a deep copy so callers can stage changes without touching the original.
func (a *Appointment) Clone() *Appointment {
	c := *a
	if a.Payment != nil {
		p := *a.Payment
		c.Payment = &p
	}
	c.ConsultationStartedAt = cloneTime(a.ConsultationStartedAt)
	c.ConsultationEndedAt = cloneTime(a.ConsultationEndedAt)
	c.CancelledAt = cloneTime(a.CancelledAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// DTOs for requests

type CreateAppointmentRequest struct {
	DoctorID  string `json:"doctor_id" validate:"required,uuid"`
	PatientID string `json:"patient_id" validate:"required,uuid"`
	Date      string `json:"date" validate:"required,isodate"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"omitempty,hhmm"`
	Motivo    string `json:"motivo" validate:"max=500"`
	Estado    string `json:"estado" validate:"omitempty,estado"`
}

type UpdateAppointmentRequest struct {
	Date         *string  `json:"date" validate:"omitempty,isodate"`
	StartTime    *string  `json:"start_time" validate:"omitempty,hhmm"`
	EndTime      *string  `json:"end_time" validate:"omitempty,hhmm"`
	Estado       *string  `json:"estado" validate:"omitempty,estado"`
	Motivo       *string  `json:"motivo" validate:"omitempty,max=500"`
	CancelReason *string  `json:"cancel_reason" validate:"omitempty,max=500"`
	Payment      *Payment `json:"payment"`
}

// Reschedules reports whether the request touches date or time.
func (r *UpdateAppointmentRequest) Reschedules() bool {
	return r.Date != nil || r.StartTime != nil || r.EndTime != nil
}

type CancelAppointmentRequest struct {
	CancelReason string `json:"cancel_reason" validate:"required,max=500"`
}

type ConfirmArrivalRequest struct {
	Payment *Payment `json:"payment" validate:"required"`
}
