package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/clinic-scheduler/internal/domain"
)

// timerTTL bounds how long an abandoned consultation timer survives.
const timerTTL = 24 * time.Hour

func timerKey(tenantID string, appointmentID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:consultation:%s", keyPrefix, tenantID, appointmentID)
}

func recordLinkKey(tenantID string) string {
	return fmt.Sprintf("%s:%s:record-link:pending", keyPrefix, tenantID)
}

// ConsultationTimer records consultation start times keyed by appointment id.
type ConsultationTimer struct {
	client redis.Cmdable
}

func NewConsultationTimer(client redis.Cmdable) *ConsultationTimer {
	return &ConsultationTimer{client: client}
}

// Start records at as the consultation start. A timer already running is left as is.
func (t *ConsultationTimer) Start(ctx context.Context, tenantID string, appointmentID uuid.UUID, at time.Time) error {
	return t.client.SetNX(ctx, timerKey(tenantID, appointmentID), at.UTC().Format(time.RFC3339Nano), timerTTL).Err()
}

// Stop clears the timer and returns the elapsed time. It returns zero when no timer was running.
func (t *ConsultationTimer) Stop(ctx context.Context, tenantID string, appointmentID uuid.UUID, at time.Time) (time.Duration, error) {
	key := timerKey(tenantID, appointmentID)

	raw, err := t.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	startedAt, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return 0, fmt.Errorf("parse consultation start %q: %w", raw, err)
	}
	if err := t.client.Del(ctx, key).Err(); err != nil {
		return 0, err
	}

	return at.Sub(startedAt), nil
}

// RecordLinkRequest is queued when a completed consultation becomes eligible
// for medical-record linkage.
type RecordLinkRequest struct {
	AppointmentID uuid.UUID   `json:"appointment_id"`
	DoctorID      uuid.UUID   `json:"doctor_id"`
	PatientID     uuid.UUID   `json:"patient_id"`
	Date          domain.Date `json:"date"`
	CompletedAt   *time.Time  `json:"completed_at,omitempty"`
}

// RecordLinkQueue pushes linkage requests onto a per-tenant Redis list
// consumed by the medical-records module.
type RecordLinkQueue struct {
	client redis.Cmdable
}

func NewRecordLinkQueue(client redis.Cmdable) *RecordLinkQueue {
	return &RecordLinkQueue{client: client}
}

func (q *RecordLinkQueue) MarkEligible(ctx context.Context, appt *domain.Appointment) error {
	raw, err := json.Marshal(RecordLinkRequest{
		AppointmentID: appt.ID,
		DoctorID:      appt.DoctorID,
		PatientID:     appt.PatientID,
		Date:          appt.Date,
		CompletedAt:   appt.ConsultationEndedAt,
	})
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, recordLinkKey(appt.TenantID), raw).Err()
}
