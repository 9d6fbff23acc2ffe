package repository

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/clinic-scheduler/internal/domain"
)

// openTestDB connects to TEST_DATABASE_URL and applies migrations.
// Tests are skipped when no database is configured.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping Postgres integration test")
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = Migrate(context.Background(), db)
	require.NoError(t, err)
	return db
}

func seedDoctorAndPatient(t *testing.T, db *sqlx.DB, tenantID string) (uuid.UUID, uuid.UUID) {
	t.Helper()
	doctorID, patientID := uuid.New(), uuid.New()
	_, err := db.Exec(`INSERT INTO doctors (id, tenant_id, name) VALUES ($1, $2, 'Dr. Test')`, doctorID, tenantID)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO patients (id, tenant_id, name) VALUES ($1, $2, 'Paciente Test')`, patientID, tenantID)
	require.NoError(t, err)
	return doctorID, patientID
}

func TestPostgres_AppointmentRoundTripAndConstraints(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	tenantID := "it_" + uuid.NewString()[:8]
	doctorID, patientID := seedDoctorAndPatient(t, db, tenantID)
	repo := NewAppointmentRepository(db)

	appt := newAppointment(doctorID, domain.NewTimeOfDay(10, 0), domain.NewTimeOfDay(10, 30), domain.EstadoProgramada)
	appt.TenantID = tenantID
	appt.PatientID = patientID
	appt.Motivo = "control"
	require.NoError(t, repo.Create(ctx, appt))

	loaded, err := repo.GetByID(ctx, tenantID, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.StartTime, loaded.StartTime)
	assert.Equal(t, appt.Date.String(), loaded.Date.String())
	assert.Nil(t, loaded.Payment)

	overlap := newAppointment(doctorID, domain.NewTimeOfDay(10, 15), domain.NewTimeOfDay(10, 45), domain.EstadoProgramada)
	overlap.TenantID = tenantID
	overlap.PatientID = patientID
	assert.ErrorIs(t, repo.Create(ctx, overlap), ErrSlotTaken)

	loaded.Estado = domain.EstadoConfirmada
	loaded.Payment = &domain.Payment{Deposit: decimal.NewFromInt(10), Balance: decimal.NewFromInt(5), Total: decimal.NewFromInt(15)}
	require.NoError(t, repo.Update(ctx, loaded))

	again, err := repo.GetByID(ctx, tenantID, appt.ID)
	require.NoError(t, err)
	require.NotNil(t, again.Payment)
	assert.True(t, again.Payment.Total.Equal(decimal.NewFromInt(15)))

	_, err = repo.GetByID(ctx, "other_tenant", appt.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgres_ConcurrentCreatesSameSlot(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	tenantID := "it_" + uuid.NewString()[:8]
	doctorID, patientID := seedDoctorAndPatient(t, db, tenantID)
	repo := NewAppointmentRepository(db)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			appt := newAppointment(doctorID, domain.NewTimeOfDay(11, 0), domain.NewTimeOfDay(11, 30), domain.EstadoProgramada)
			appt.TenantID = tenantID
			appt.PatientID = patientID
			results <- repo.Create(ctx, appt)
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, ErrSlotTaken)
	}
	assert.Equal(t, 1, successes)
}

func TestPostgres_DoctorSchedule(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	tenantID := "it_" + uuid.NewString()[:8]
	doctorID, _ := seedDoctorAndPatient(t, db, tenantID)
	repo := NewDoctorRepository(db)

	windows := []domain.ScheduleWindow{
		{ID: uuid.New(), DayOfWeek: 2, StartTime: domain.NewTimeOfDay(9, 0), EndTime: domain.NewTimeOfDay(12, 0), Active: true},
		{ID: uuid.New(), DayOfWeek: 4, StartTime: domain.NewTimeOfDay(14, 0), EndTime: domain.NewTimeOfDay(18, 0), Active: false},
	}
	require.NoError(t, repo.ReplaceSchedule(ctx, tenantID, doctorID, windows))

	doc, err := repo.GetByID(ctx, tenantID, doctorID)
	require.NoError(t, err)
	require.Len(t, doc.Schedule.Windows, 2)
	assert.Equal(t, domain.NewTimeOfDay(9, 0), doc.Schedule.Windows[0].StartTime)

	assert.ErrorIs(t, repo.ReplaceSchedule(ctx, "other_tenant", doctorID, windows), ErrNotFound)

	exists, err := NewPatientRepository(db).Exists(ctx, tenantID, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}
