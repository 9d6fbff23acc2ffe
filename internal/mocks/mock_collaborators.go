package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/clinic-scheduler/internal/domain"
)

type MockScheduleCache struct {
	mock.Mock
}

func (m *MockScheduleCache) Get(ctx context.Context, tenantID string, doctorID uuid.UUID) (*domain.Doctor, bool, error) {
	args := m.Called(ctx, tenantID, doctorID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Doctor), args.Bool(1), args.Error(2)
}

func (m *MockScheduleCache) Set(ctx context.Context, doc *domain.Doctor) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockScheduleCache) Invalidate(ctx context.Context, tenantID string, doctorID uuid.UUID) error {
	args := m.Called(ctx, tenantID, doctorID)
	return args.Error(0)
}

type MockConsultationTimer struct {
	mock.Mock
}

func (m *MockConsultationTimer) Start(ctx context.Context, tenantID string, appointmentID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, tenantID, appointmentID, at)
	return args.Error(0)
}

func (m *MockConsultationTimer) Stop(ctx context.Context, tenantID string, appointmentID uuid.UUID, at time.Time) (time.Duration, error) {
	args := m.Called(ctx, tenantID, appointmentID, at)
	return args.Get(0).(time.Duration), args.Error(1)
}

type MockRecordLinker struct {
	mock.Mock
}

func (m *MockRecordLinker) MarkEligible(ctx context.Context, appt *domain.Appointment) error {
	args := m.Called(ctx, appt)
	return args.Error(0)
}
