package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/segyhp/clinic-scheduler/internal/domain"
)

const (
	pqUniqueViolation    = "23505"
	pqExclusionViolation = "23P01"
)

const appointmentColumns = `
	id, tenant_id, doctor_id, patient_id, appointment_date, start_time, end_time,
	estado, motivo, payment, cancel_reason, consultation_started_at, consultation_ended_at,
	record_link_eligible, created_at, created_by, updated_at, updated_by, cancelled_at`

type appointmentRow struct {
	ID                    uuid.UUID        `db:"id"`
	TenantID              string           `db:"tenant_id"`
	DoctorID              uuid.UUID        `db:"doctor_id"`
	PatientID             uuid.UUID        `db:"patient_id"`
	Date                  domain.Date      `db:"appointment_date"`
	StartTime             domain.TimeOfDay `db:"start_time"`
	EndTime               domain.TimeOfDay `db:"end_time"`
	Estado                string           `db:"estado"`
	Motivo                string           `db:"motivo"`
	Payment               []byte           `db:"payment"`
	CancelReason          sql.NullString   `db:"cancel_reason"`
	ConsultationStartedAt sql.NullTime     `db:"consultation_started_at"`
	ConsultationEndedAt   sql.NullTime     `db:"consultation_ended_at"`
	RecordLinkEligible    bool             `db:"record_link_eligible"`
	CreatedAt             time.Time        `db:"created_at"`
	CreatedBy             string           `db:"created_by"`
	UpdatedAt             time.Time        `db:"updated_at"`
	UpdatedBy             string           `db:"updated_by"`
	CancelledAt           sql.NullTime     `db:"cancelled_at"`
}

func (r appointmentRow) toDomain() (*domain.Appointment, error) {
	estado, err := domain.ParseEstado(r.Estado)
	if err != nil {
		return nil, err
	}

	appt := &domain.Appointment{
		ID:                    r.ID,
		TenantID:              r.TenantID,
		DoctorID:              r.DoctorID,
		PatientID:             r.PatientID,
		Date:                  r.Date,
		StartTime:             r.StartTime,
		EndTime:               r.EndTime,
		Estado:                estado,
		Motivo:                r.Motivo,
		CancelReason:          r.CancelReason.String,
		ConsultationStartedAt: nullTime(r.ConsultationStartedAt),
		ConsultationEndedAt:   nullTime(r.ConsultationEndedAt),
		RecordLinkEligible:    r.RecordLinkEligible,
		CreatedAt:             r.CreatedAt,
		CreatedBy:             r.CreatedBy,
		UpdatedAt:             r.UpdatedAt,
		UpdatedBy:             r.UpdatedBy,
		CancelledAt:           nullTime(r.CancelledAt),
	}

	if len(r.Payment) > 0 {
		var p domain.Payment
		if err := json.Unmarshal(r.Payment, &p); err != nil {
			return nil, err
		}
		appt.Payment = &p
	}

	return appt, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func timeArg(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func stringArg(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func paymentArg(p *domain.Payment) (interface{}, error) {
	if p == nil {
		return nil, nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// mapWriteError turns the storage-level overlap guarantees into ErrSlotTaken.
func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation, pqExclusionViolation:
			return ErrSlotTaken
		}
	}
	return err
}

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appt *domain.Appointment) error {
	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	payment, err := paymentArg(appt.Payment)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		appt.ID,
		appt.TenantID,
		appt.DoctorID,
		appt.PatientID,
		appt.Date,
		appt.StartTime,
		appt.EndTime,
		appt.Estado.String(),
		appt.Motivo,
		payment,
		stringArg(appt.CancelReason),
		timeArg(appt.ConsultationStartedAt),
		timeArg(appt.ConsultationEndedAt),
		appt.RecordLinkEligible,
		appt.CreatedAt,
		appt.CreatedBy,
		appt.UpdatedAt,
		appt.UpdatedBy,
		timeArg(appt.CancelledAt),
	)

	return mapWriteError(err)
}

func (r *appointmentRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE tenant_id = $1 AND id = $2`

	var row appointmentRow
	if err := r.db.GetContext(ctx, &row, query, tenantID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toDomain()
}

func (r *appointmentRepository) Update(ctx context.Context, appt *domain.Appointment) error {
	query := `
		UPDATE appointments
		SET appointment_date = $3, start_time = $4, end_time = $5, estado = $6, motivo = $7,
			payment = $8, cancel_reason = $9, consultation_started_at = $10, consultation_ended_at = $11,
			record_link_eligible = $12, updated_at = $13, updated_by = $14, cancelled_at = $15
		WHERE tenant_id = $1 AND id = $2
	`

	payment, err := paymentArg(appt.Payment)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query,
		appt.TenantID,
		appt.ID,
		appt.Date,
		appt.StartTime,
		appt.EndTime,
		appt.Estado.String(),
		appt.Motivo,
		payment,
		stringArg(appt.CancelReason),
		timeArg(appt.ConsultationStartedAt),
		timeArg(appt.ConsultationEndedAt),
		appt.RecordLinkEligible,
		appt.UpdatedAt,
		appt.UpdatedBy,
		timeArg(appt.CancelledAt),
	)
	if err != nil {
		return mapWriteError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *appointmentRepository) ListByDoctorDate(ctx context.Context, tenantID string, doctorID uuid.UUID, date domain.Date, includeCancelled bool) ([]*domain.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE tenant_id = $1 AND doctor_id = $2 AND appointment_date = $3
			AND ($4 OR estado <> 'cancelada')
		ORDER BY start_time
	`

	var rows []appointmentRow
	if err := r.db.SelectContext(ctx, &rows, query, tenantID, doctorID, date, includeCancelled); err != nil {
		return nil, err
	}

	return toDomainList(rows)
}

func (r *appointmentRepository) ListOpenBefore(ctx context.Context, tenantID string, date domain.Date) ([]*domain.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE tenant_id = $1 AND appointment_date < $2 AND estado IN ('programada', 'confirmada')
		ORDER BY appointment_date, start_time
	`

	var rows []appointmentRow
	if err := r.db.SelectContext(ctx, &rows, query, tenantID, date); err != nil {
		return nil, err
	}

	return toDomainList(rows)
}

func toDomainList(rows []appointmentRow) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0, len(rows))
	for _, row := range rows {
		appt, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, appt)
	}
	return appointments, nil
}
