package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/segyhp/clinic-scheduler/internal/domain"
)

// MemoryStore is an in-process implementation of every repository interface.
// Writes re-check overlap under the store lock, giving the same no-double-booking
// guarantee as the Postgres constraints.
type MemoryStore struct {
	mu           sync.RWMutex
	doctors      map[string]*domain.Doctor      // tenant/id -> doctor
	patients     map[string]*domain.Patient     // tenant/id -> patient
	appointments map[string]*domain.Appointment // tenant/id -> appointment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		doctors:      make(map[string]*domain.Doctor),
		patients:     make(map[string]*domain.Patient),
		appointments: make(map[string]*domain.Appointment),
	}
}

func key(tenantID string, id uuid.UUID) string {
	return tenantID + "/" + id.String()
}

// AddDoctor stores a doctor for setup and seeding.
func (m *MemoryStore) AddDoctor(doc domain.Doctor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc.Schedule.DoctorID = doc.ID
	doc.Schedule.Windows = append([]domain.ScheduleWindow(nil), doc.Schedule.Windows...)
	m.doctors[key(doc.TenantID, doc.ID)] = &doc
}

// AddPatient stores a patient for setup and seeding.
func (m *MemoryStore) AddPatient(p domain.Patient) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patients[key(p.TenantID, p.ID)] = &p
}

// Doctors returns the doctor repository view of the store.
func (m *MemoryStore) Doctors() DoctorRepository { return memoryDoctors{m} }

// Patients returns the patient repository view of the store.
func (m *MemoryStore) Patients() PatientRepository { return memoryPatients{m} }

// Appointments returns the appointment repository view of the store.
func (m *MemoryStore) Appointments() AppointmentRepository { return memoryAppointments{m} }

// conflictLocked reports whether appt overlaps another active appointment. Callers hold mu.
func (m *MemoryStore) conflictLocked(appt *domain.Appointment) bool {
	if !appt.Estado.OccupiesSlot() {
		return false
	}
	for _, other := range m.appointments {
		if other.ID == appt.ID || other.TenantID != appt.TenantID || other.DoctorID != appt.DoctorID {
			continue
		}
		if !other.Date.Equal(appt.Date) || !other.Estado.OccupiesSlot() {
			continue
		}
		if other.Interval().Overlaps(appt.Interval()) {
			return true
		}
	}
	return false
}

type memoryAppointments struct{ m *MemoryStore }

func (r memoryAppointments) Create(_ context.Context, appt *domain.Appointment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if r.m.conflictLocked(appt) {
		return ErrSlotTaken
	}
	r.m.appointments[key(appt.TenantID, appt.ID)] = appt.Clone()
	return nil
}

func (r memoryAppointments) GetByID(_ context.Context, tenantID string, id uuid.UUID) (*domain.Appointment, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	appt, ok := r.m.appointments[key(tenantID, id)]
	if !ok {
		return nil, ErrNotFound
	}
	return appt.Clone(), nil
}

func (r memoryAppointments) Update(_ context.Context, appt *domain.Appointment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	k := key(appt.TenantID, appt.ID)
	if _, ok := r.m.appointments[k]; !ok {
		return ErrNotFound
	}
	if r.m.conflictLocked(appt) {
		return ErrSlotTaken
	}
	r.m.appointments[k] = appt.Clone()
	return nil
}

func (r memoryAppointments) ListByDoctorDate(_ context.Context, tenantID string, doctorID uuid.UUID, date domain.Date, includeCancelled bool) ([]*domain.Appointment, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	appointments := make([]*domain.Appointment, 0)
	for _, appt := range r.m.appointments {
		if appt.TenantID != tenantID || appt.DoctorID != doctorID || !appt.Date.Equal(date) {
			continue
		}
		if !includeCancelled && appt.Estado == domain.EstadoCancelada {
			continue
		}
		appointments = append(appointments, appt.Clone())
	}

	sort.Slice(appointments, func(i, j int) bool {
		return appointments[i].StartTime < appointments[j].StartTime
	})
	return appointments, nil
}

func (r memoryAppointments) ListOpenBefore(_ context.Context, tenantID string, date domain.Date) ([]*domain.Appointment, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	appointments := make([]*domain.Appointment, 0)
	for _, appt := range r.m.appointments {
		if appt.TenantID != tenantID || !appt.Date.Before(date) || !appt.Estado.Reschedulable() {
			continue
		}
		appointments = append(appointments, appt.Clone())
	}

	sort.Slice(appointments, func(i, j int) bool {
		if !appointments[i].Date.Equal(appointments[j].Date) {
			return appointments[i].Date.Before(appointments[j].Date)
		}
		return appointments[i].StartTime < appointments[j].StartTime
	})
	return appointments, nil
}

type memoryDoctors struct{ m *MemoryStore }

func (r memoryDoctors) GetByID(_ context.Context, tenantID string, id uuid.UUID) (*domain.Doctor, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	doc, ok := r.m.doctors[key(tenantID, id)]
	if !ok {
		return nil, ErrNotFound
	}
	c := *doc
	c.Schedule.Windows = append([]domain.ScheduleWindow(nil), doc.Schedule.Windows...)
	return &c, nil
}

func (r memoryDoctors) ReplaceSchedule(_ context.Context, tenantID string, doctorID uuid.UUID, windows []domain.ScheduleWindow) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	doc, ok := r.m.doctors[key(tenantID, doctorID)]
	if !ok {
		return ErrNotFound
	}
	doc.Schedule.Windows = append([]domain.ScheduleWindow(nil), windows...)
	return nil
}

func (r memoryDoctors) ListTenants(_ context.Context) ([]string, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	seen := make(map[string]bool)
	tenants := make([]string, 0)
	for _, doc := range r.m.doctors {
		if !seen[doc.TenantID] {
			seen[doc.TenantID] = true
			tenants = append(tenants, doc.TenantID)
		}
	}
	sort.Strings(tenants)
	return tenants, nil
}

type memoryPatients struct{ m *MemoryStore }

func (r memoryPatients) Exists(_ context.Context, tenantID string, id uuid.UUID) (bool, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	_, ok := r.m.patients[key(tenantID, id)]
	return ok, nil
}
