package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/segyhp/clinic-scheduler/internal/domain"
)

type doctorRow struct {
	ID       uuid.UUID `db:"id"`
	TenantID string    `db:"tenant_id"`
	Name     string    `db:"name"`
}

type scheduleWindowRow struct {
	ID        uuid.UUID        `db:"id"`
	DayOfWeek int              `db:"day_of_week"`
	StartTime domain.TimeOfDay `db:"start_time"`
	EndTime   domain.TimeOfDay `db:"end_time"`
	Active    bool             `db:"active"`
}

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Doctor, error) {
	var doc doctorRow
	err := r.db.GetContext(ctx, &doc, `SELECT id, tenant_id, name FROM doctors WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	query := `
		SELECT id, day_of_week, start_time, end_time, active
		FROM schedule_windows
		WHERE tenant_id = $1 AND doctor_id = $2
		ORDER BY day_of_week, start_time
	`

	var rows []scheduleWindowRow
	if err := r.db.SelectContext(ctx, &rows, query, tenantID, id); err != nil {
		return nil, err
	}

	windows := make([]domain.ScheduleWindow, 0, len(rows))
	for _, row := range rows {
		windows = append(windows, domain.ScheduleWindow{
			ID:        row.ID,
			DayOfWeek: row.DayOfWeek,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
			Active:    row.Active,
		})
	}

	return &domain.Doctor{
		ID:       doc.ID,
		TenantID: doc.TenantID,
		Name:     doc.Name,
		Schedule: domain.ScheduleTemplate{DoctorID: doc.ID, Windows: windows},
	}, nil
}

func (r *doctorRepository) ReplaceSchedule(ctx context.Context, tenantID string, doctorID uuid.UUID, windows []domain.ScheduleWindow) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM doctors WHERE tenant_id = $1 AND id = $2)`, tenantID, doctorID); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_windows WHERE tenant_id = $1 AND doctor_id = $2`, tenantID, doctorID); err != nil {
		return err
	}

	query := `
		INSERT INTO schedule_windows (id, tenant_id, doctor_id, day_of_week, start_time, end_time, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, w := range windows {
		_, err = tx.ExecContext(ctx, query,
			w.ID,
			tenantID,
			doctorID,
			w.DayOfWeek,
			w.StartTime,
			w.EndTime,
			w.Active,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *doctorRepository) ListTenants(ctx context.Context) ([]string, error) {
	var tenants []string
	if err := r.db.SelectContext(ctx, &tenants, `SELECT DISTINCT tenant_id FROM doctors ORDER BY tenant_id`); err != nil {
		return nil, err
	}
	return tenants, nil
}

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Exists(ctx context.Context, tenantID string, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM patients WHERE tenant_id = $1 AND id = $2)`, tenantID, id)
	return exists, err
}
