package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/clinic-scheduler/internal/domain"
)

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, appt *domain.Appointment) error {
	args := m.Called(ctx, appt)
	return args.Error(0)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Appointment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Update(ctx context.Context, appt *domain.Appointment) error {
	args := m.Called(ctx, appt)
	return args.Error(0)
}

func (m *MockAppointmentRepository) ListByDoctorDate(ctx context.Context, tenantID string, doctorID uuid.UUID, date domain.Date, includeCancelled bool) ([]*domain.Appointment, error) {
	args := m.Called(ctx, tenantID, doctorID, date, includeCancelled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ListOpenBefore(ctx context.Context, tenantID string, date domain.Date) ([]*domain.Appointment, error) {
	args := m.Called(ctx, tenantID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Appointment), args.Error(1)
}

type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Doctor, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) ReplaceSchedule(ctx context.Context, tenantID string, doctorID uuid.UUID, windows []domain.ScheduleWindow) error {
	args := m.Called(ctx, tenantID, doctorID, windows)
	return args.Error(0)
}

func (m *MockDoctorRepository) ListTenants(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
