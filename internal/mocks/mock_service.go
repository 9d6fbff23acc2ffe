package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/clinic-scheduler/internal/domain"
)

type MockAppointmentService struct {
	mock.Mock
}

func (m *MockAppointmentService) ListAvailableSlots(ctx context.Context, tenantID string, doctorID uuid.UUID, date domain.Date) (*domain.Availability, error) {
	args := m.Called(ctx, tenantID, doctorID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Availability), args.Error(1)
}

func (m *MockAppointmentService) GetDoctorBookedIntervals(ctx context.Context, tenantID string, doctorID uuid.UUID, date domain.Date) ([]domain.TimeInterval, error) {
	args := m.Called(ctx, tenantID, doctorID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeInterval), args.Error(1)
}

func (m *MockAppointmentService) ListDoctorAppointments(ctx context.Context, tenantID string, doctorID uuid.UUID, date domain.Date) ([]*domain.Appointment, error) {
	args := m.Called(ctx, tenantID, doctorID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Appointment), args.Error(1)
}

func (m *MockAppointmentService) GetSchedule(ctx context.Context, tenantID string, doctorID uuid.UUID) (*domain.ScheduleTemplate, error) {
	args := m.Called(ctx, tenantID, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduleTemplate), args.Error(1)
}

func (m *MockAppointmentService) ReplaceSchedule(ctx context.Context, tenantID string, doctorID uuid.UUID, req *domain.ReplaceScheduleRequest) (*domain.ScheduleTemplate, error) {
	args := m.Called(ctx, tenantID, doctorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduleTemplate), args.Error(1)
}

func (m *MockAppointmentService) CreateAppointment(ctx context.Context, tenantID, actor string, req *domain.CreateAppointmentRequest) (*domain.Appointment, error) {
	args := m.Called(ctx, tenantID, actor, req)
	return appointmentResult(args)
}

func (m *MockAppointmentService) GetAppointment(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Appointment, error) {
	args := m.Called(ctx, tenantID, id)
	return appointmentResult(args)
}

func (m *MockAppointmentService) UpdateAppointment(ctx context.Context, tenantID, actor string, id uuid.UUID, req *domain.UpdateAppointmentRequest) (*domain.Appointment, error) {
	args := m.Called(ctx, tenantID, actor, id, req)
	return appointmentResult(args)
}

func (m *MockAppointmentService) CancelAppointment(ctx context.Context, tenantID, actor string, id uuid.UUID, reason string) (*domain.Appointment, error) {
	args := m.Called(ctx, tenantID, actor, id, reason)
	return appointmentResult(args)
}

func (m *MockAppointmentService) ConfirmArrival(ctx context.Context, tenantID, actor string, id uuid.UUID, payment *domain.Payment) (*domain.Appointment, error) {
	args := m.Called(ctx, tenantID, actor, id, payment)
	return appointmentResult(args)
}

func (m *MockAppointmentService) StartConsultation(ctx context.Context, tenantID, actor string, id uuid.UUID) (*domain.Appointment, error) {
	args := m.Called(ctx, tenantID, actor, id)
	return appointmentResult(args)
}

func (m *MockAppointmentService) CompleteConsultation(ctx context.Context, tenantID, actor string, id uuid.UUID) (*domain.Appointment, error) {
	args := m.Called(ctx, tenantID, actor, id)
	return appointmentResult(args)
}

func (m *MockAppointmentService) MarkNoShow(ctx context.Context, tenantID, actor string, id uuid.UUID) (*domain.Appointment, error) {
	args := m.Called(ctx, tenantID, actor, id)
	return appointmentResult(args)
}

func appointmentResult(args mock.Arguments) (*domain.Appointment, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

// NewMockAppointmentService creates a new mock appointment service instance
func NewMockAppointmentService() *MockAppointmentService {
	return &MockAppointmentService{}
}
