package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/segyhp/clinic-scheduler/internal/availability"
	"github.com/segyhp/clinic-scheduler/internal/domain"
	"github.com/segyhp/clinic-scheduler/internal/lifecycle"
	"github.com/segyhp/clinic-scheduler/internal/repository"
	customError "github.com/segyhp/clinic-scheduler/pkg/errors"
)

// SweepActor is recorded as UpdatedBy on appointments closed by the no-show sweep.
const SweepActor = "scheduler"

var tenantPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ScheduleCache caches doctors with their weekly template.
type ScheduleCache interface {
	Get(ctx context.Context, tenantID string, doctorID uuid.UUID) (*domain.Doctor, bool, error)
	Set(ctx context.Context, doc *domain.Doctor) error
	Invalidate(ctx context.Context, tenantID string, doctorID uuid.UUID) error
}

// ConsultationTimer tracks running consultations.
type ConsultationTimer interface {
	Start(ctx context.Context, tenantID string, appointmentID uuid.UUID, at time.Time) error
	Stop(ctx context.Context, tenantID string, appointmentID uuid.UUID, at time.Time) (time.Duration, error)
}

// RecordLinker hands completed consultations to the medical-records module.
type RecordLinker interface {
	MarkEligible(ctx context.Context, appt *domain.Appointment) error
}

// Config holds the booking rules applied by the service.
type Config struct {
	SlotDuration          time.Duration
	EnforceSlotDuration   bool
	RequireWithinSchedule bool
}

type Option func(*AppointmentService)

func WithScheduleCache(c ScheduleCache) Option {
	return func(s *AppointmentService) { s.cache = c }
}

func WithConsultationTimer(t ConsultationTimer) Option {
	return func(s *AppointmentService) { s.timer = t }
}

func WithRecordLinker(l RecordLinker) Option {
	return func(s *AppointmentService) { s.linker = l }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *AppointmentService) { s.log = l }
}

// WithClock overrides the time source used for audit fields.
func WithClock(now func() time.Time) Option {
	return func(s *AppointmentService) { s.now = now }
}

// AppointmentService orchestrates availability, conflict checks and the
// appointment lifecycle over the repositories. It keeps no state between calls.
type AppointmentService struct {
	appointments repository.AppointmentRepository
	doctors      repository.DoctorRepository
	patients     repository.PatientRepository
	guard        *ConflictGuard
	validate     *validator.Validate
	cfg          Config

	cache  ScheduleCache
	timer  ConsultationTimer
	linker RecordLinker
	log    zerolog.Logger
	now    func() time.Time
}

func NewAppointmentService(
	appointments repository.AppointmentRepository,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	cfg Config,
	opts ...Option,
) *AppointmentService {
	cfg.SlotDuration = cfg.SlotDuration.Truncate(time.Minute)
	if cfg.SlotDuration <= 0 {
		cfg.SlotDuration = domain.DefaultSlotDuration
	}

	s := &AppointmentService{
		appointments: appointments,
		doctors:      doctors,
		patients:     patients,
		guard:        NewConflictGuard(appointments),
		validate:     domain.NewValidator(),
		cfg:          cfg,
		log:          zerolog.Nop(),
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SlotDuration returns the configured booking granularity.
func (s *AppointmentService) SlotDuration() time.Duration {
	return s.cfg.SlotDuration
}

func validateTenant(tenantID string) error {
	if !tenantPattern.MatchString(tenantID) {
		return customError.NewValidationError("tenant_id", "must be a non-empty identifier of letters, digits, '_' or '-'")
	}
	return nil
}

// ListAvailableSlots returns the doctor's slots on date with their availability.
func (s *AppointmentService) ListAvailableSlots(ctx context.Context, tenantID string, doctorID uuid.UUID, date domain.Date) (*domain.Availability, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}

	doc, err := s.loadDoctor(ctx, tenantID, doctorID)
	if err != nil {
		return nil, err
	}

	booked, err := s.bookedIntervals(ctx, tenantID, doctorID, date)
	if err != nil {
		return nil, err
	}

	slots := availability.ComputeSlots(doc.Schedule, date, booked, s.cfg.SlotDuration)
	status := availability.Status(doc.Schedule, date)

	return &domain.Availability{
		DoctorID:    doctorID,
		Date:        date,
		DayOfWeek:   date.ISOWeekday(),
		SlotMinutes: int(s.cfg.SlotDuration / time.Minute),
		Status:      status,
		Message:     availability.Message(status, slots),
		Slots:       slots,
	}, nil
}

// GetDoctorBookedIntervals returns the intervals held by non-cancelled appointments.
func (s *AppointmentService) GetDoctorBookedIntervals(ctx context.Context, tenantID string, doctorID uuid.UUID, date domain.Date) ([]domain.TimeInterval, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}
	if _, err := s.loadDoctor(ctx, tenantID, doctorID); err != nil {
		return nil, err
	}
	return s.bookedIntervals(ctx, tenantID, doctorID, date)
}

func (s *AppointmentService) bookedIntervals(ctx context.Context, tenantID string, doctorID uuid.UUID, date domain.Date) ([]domain.TimeInterval, error) {
	appointments, err := s.appointments.ListByDoctorDate(ctx, tenantID, doctorID, date, false)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	intervals := make([]domain.TimeInterval, 0, len(appointments))
	for _, appt := range appointments {
		if appt.Estado.OccupiesSlot() {
			intervals = append(intervals, appt.Interval())
		}
	}
	return intervals, nil
}

// CreateAppointment books a new appointment in state programada.
func (s *AppointmentService) CreateAppointment(ctx context.Context, tenantID, actor string, req *domain.CreateAppointmentRequest) (*domain.Appointment, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}
	if err := domain.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}
	if req.Estado != "" && domain.Estado(req.Estado) != domain.EstadoProgramada {
		return nil, customError.NewValidationError("estado", "new appointments start as programada")
	}

	// Formats were checked by the validator above
	doctorID := uuid.MustParse(req.DoctorID)
	patientID := uuid.MustParse(req.PatientID)
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, customError.NewValidationError("date", err.Error())
	}
	start, err := domain.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, customError.NewValidationError("start_time", err.Error())
	}
	end := start.Add(s.cfg.SlotDuration)
	if req.EndTime != "" {
		if end, err = domain.ParseTimeOfDay(req.EndTime); err != nil {
			return nil, customError.NewValidationError("end_time", err.Error())
		}
	}

	interval := domain.TimeInterval{Start: start, End: end}
	if err := s.checkDuration(interval); err != nil {
		return nil, err
	}

	doc, err := s.loadDoctor(ctx, tenantID, doctorID)
	if err != nil {
		return nil, err
	}
	if err := s.checkPatient(ctx, tenantID, patientID); err != nil {
		return nil, err
	}
	if err := s.checkWithinSchedule(doc, date, interval); err != nil {
		return nil, err
	}

	if err := s.guard.Validate(ctx, tenantID, doctorID, date, start, end, nil); err != nil {
		return nil, err
	}

	now := s.now()
	appt := &domain.Appointment{
		ID:        uuid.New(),
		TenantID:  tenantID,
		DoctorID:  doctorID,
		PatientID: patientID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Estado:    domain.EstadoProgramada,
		Motivo:    strings.TrimSpace(req.Motivo),
		CreatedAt: now,
		CreatedBy: actor,
		UpdatedAt: now,
		UpdatedBy: actor,
	}

	if err := s.appointments.Create(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, s.storageConflict(ctx, appt)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.log.Info().
		Str("tenant_id", tenantID).
		Str("appointment_id", appt.ID.String()).
		Str("doctor_id", doctorID.String()).
		Str("date", date.String()).
		Str("interval", interval.String()).
		Msg("appointment created")

	return appt, nil
}

// UpdateAppointment applies field changes, a reschedule and/or an estado
// transition. All checks run on a working copy; nothing is written unless
// every check passes.
func (s *AppointmentService) UpdateAppointment(ctx context.Context, tenantID, actor string, id uuid.UUID, req *domain.UpdateAppointmentRequest) (*domain.Appointment, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}
	if err := domain.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}

	current, err := s.getAppointment(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if current.Estado.Terminal() {
		to := "update"
		if req.Estado != nil {
			to = *req.Estado
		}
		return nil, customError.NewInvalidTransitionError(current.Estado.String(), to)
	}

	working := current.Clone()
	now := s.now()

	if req.Motivo != nil {
		working.Motivo = strings.TrimSpace(*req.Motivo)
	}

	if req.Reschedules() {
		if err := s.reschedule(ctx, current, working, req); err != nil {
			return nil, err
		}
	}

	var effects []lifecycle.Effect
	transitioning := req.Estado != nil && domain.Estado(*req.Estado) != current.Estado
	if transitioning {
		to, err := domain.ParseEstado(*req.Estado)
		if err != nil {
			return nil, err
		}
		if req.CancelReason != nil && to != domain.EstadoCancelada {
			return nil, customError.NewValidationError("cancel_reason", "only accepted when cancelling")
		}
		if req.Payment != nil && to != domain.EstadoConfirmada {
			return nil, customError.NewValidationError("payment", "only accepted when confirming")
		}
		data := lifecycle.Data{Payment: req.Payment}
		if req.CancelReason != nil {
			data.CancelReason = *req.CancelReason
		}
		if effects, err = lifecycle.Apply(working, to, data, actor, now); err != nil {
			return nil, err
		}
	} else {
		if req.CancelReason != nil {
			return nil, customError.NewValidationError("cancel_reason", "only accepted when cancelling")
		}
		if req.Payment != nil {
			if err := s.amendPayment(working, req.Payment); err != nil {
				return nil, err
			}
		}
	}

	working.UpdatedAt = now
	working.UpdatedBy = actor

	if err := s.persist(ctx, working); err != nil {
		return nil, err
	}

	if transitioning {
		s.logTransition(current, working)
	}
	s.runEffects(ctx, working, effects)
	return working, nil
}

// reschedule moves working to the requested date/time after the duration,
// schedule and conflict checks pass.
func (s *AppointmentService) reschedule(ctx context.Context, current, working *domain.Appointment, req *domain.UpdateAppointmentRequest) error {
	if !current.Estado.Reschedulable() {
		return customError.NewInvalidTransitionError(current.Estado.String(), "reschedule")
	}

	date := current.Date
	if req.Date != nil {
		d, err := domain.ParseDate(*req.Date)
		if err != nil {
			return customError.NewValidationError("date", err.Error())
		}
		date = d
	}

	start := current.StartTime
	if req.StartTime != nil {
		t, err := domain.ParseTimeOfDay(*req.StartTime)
		if err != nil {
			return customError.NewValidationError("start_time", err.Error())
		}
		start = t
	}

	// A moved start keeps the appointment's length unless an end is given
	end := start.Add(current.Interval().Duration())
	if req.EndTime != nil {
		t, err := domain.ParseTimeOfDay(*req.EndTime)
		if err != nil {
			return customError.NewValidationError("end_time", err.Error())
		}
		end = t
	}

	interval := domain.TimeInterval{Start: start, End: end}
	if err := s.checkDuration(interval); err != nil {
		return err
	}

	doc, err := s.loadDoctor(ctx, current.TenantID, current.DoctorID)
	if err != nil {
		return err
	}
	if err := s.checkWithinSchedule(doc, date, interval); err != nil {
		return err
	}

	if err := s.guard.Validate(ctx, current.TenantID, current.DoctorID, date, start, end, &current.ID); err != nil {
		return err
	}

	working.Date = date
	working.StartTime = start
	working.EndTime = end
	return nil
}

// amendPayment replaces an already captured payment, e.g. when the balance is settled.
func (s *AppointmentService) amendPayment(working *domain.Appointment, payment *domain.Payment) error {
	if working.Payment == nil {
		return customError.NewValidationError("payment", "payment is captured by confirming the appointment")
	}
	if err := payment.Validate(); err != nil {
		return err
	}
	p := *payment
	working.Payment = &p
	return nil
}

// CancelAppointment moves the appointment to cancelada, freeing its slot.
func (s *AppointmentService) CancelAppointment(ctx context.Context, tenantID, actor string, id uuid.UUID, reason string) (*domain.Appointment, error) {
	return s.transition(ctx, tenantID, actor, id, domain.EstadoCancelada, lifecycle.Data{CancelReason: reason})
}

// ConfirmArrival records the patient's arrival together with the payment taken.
func (s *AppointmentService) ConfirmArrival(ctx context.Context, tenantID, actor string, id uuid.UUID, payment *domain.Payment) (*domain.Appointment, error) {
	return s.transition(ctx, tenantID, actor, id, domain.EstadoConfirmada, lifecycle.Data{Payment: payment})
}

func (s *AppointmentService) StartConsultation(ctx context.Context, tenantID, actor string, id uuid.UUID) (*domain.Appointment, error) {
	return s.transition(ctx, tenantID, actor, id, domain.EstadoEnCurso, lifecycle.Data{})
}

func (s *AppointmentService) CompleteConsultation(ctx context.Context, tenantID, actor string, id uuid.UUID) (*domain.Appointment, error) {
	return s.transition(ctx, tenantID, actor, id, domain.EstadoCompletada, lifecycle.Data{})
}

func (s *AppointmentService) MarkNoShow(ctx context.Context, tenantID, actor string, id uuid.UUID) (*domain.Appointment, error) {
	return s.transition(ctx, tenantID, actor, id, domain.EstadoNoAsistio, lifecycle.Data{})
}

func (s *AppointmentService) transition(ctx context.Context, tenantID, actor string, id uuid.UUID, to domain.Estado, data lifecycle.Data) (*domain.Appointment, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}

	current, err := s.getAppointment(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	working := current.Clone()
	effects, err := lifecycle.Apply(working, to, data, actor, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, working); err != nil {
		return nil, err
	}

	s.logTransition(current, working)
	s.runEffects(ctx, working, effects)
	return working, nil
}

// GetAppointment returns one appointment of the tenant.
func (s *AppointmentService) GetAppointment(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Appointment, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}
	return s.getAppointment(ctx, tenantID, id)
}

// ListDoctorAppointments returns the doctor's day, cancelled appointments included.
func (s *AppointmentService) ListDoctorAppointments(ctx context.Context, tenantID string, doctorID uuid.UUID, date domain.Date) ([]*domain.Appointment, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}
	if _, err := s.loadDoctor(ctx, tenantID, doctorID); err != nil {
		return nil, err
	}

	appointments, err := s.appointments.ListByDoctorDate(ctx, tenantID, doctorID, date, true)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return appointments, nil
}

// GetSchedule returns the doctor's weekly template.
func (s *AppointmentService) GetSchedule(ctx context.Context, tenantID string, doctorID uuid.UUID) (*domain.ScheduleTemplate, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}
	doc, err := s.loadDoctor(ctx, tenantID, doctorID)
	if err != nil {
		return nil, err
	}
	return &doc.Schedule, nil
}

// ReplaceSchedule swaps the doctor's whole weekly template. Existing
// appointments are left untouched.
func (s *AppointmentService) ReplaceSchedule(ctx context.Context, tenantID string, doctorID uuid.UUID, req *domain.ReplaceScheduleRequest) (*domain.ScheduleTemplate, error) {
	if err := validateTenant(tenantID); err != nil {
		return nil, err
	}
	if err := domain.ValidateStruct(s.validate, req); err != nil {
		return nil, err
	}

	template := domain.ScheduleTemplate{DoctorID: doctorID, Windows: make([]domain.ScheduleWindow, 0, len(req.Windows))}
	for i, w := range req.Windows {
		start, err := domain.ParseTimeOfDay(w.StartTime)
		if err != nil {
			return nil, customError.NewValidationError(fmt.Sprintf("windows[%d].start_time", i), err.Error())
		}
		end, err := domain.ParseTimeOfDay(w.EndTime)
		if err != nil {
			return nil, customError.NewValidationError(fmt.Sprintf("windows[%d].end_time", i), err.Error())
		}
		active := true
		if w.Active != nil {
			active = *w.Active
		}
		template.Windows = append(template.Windows, domain.ScheduleWindow{
			ID:        uuid.New(),
			DayOfWeek: w.DayOfWeek,
			StartTime: start,
			EndTime:   end,
			Active:    active,
		})
	}
	if err := template.Validate(); err != nil {
		return nil, err
	}

	if err := s.doctors.ReplaceSchedule(ctx, tenantID, doctorID, template.Windows); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, customError.WrapDoctorNotFound(doctorID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, tenantID, doctorID); err != nil {
			s.log.Warn().Err(err).Str("doctor_id", doctorID.String()).Msg("schedule cache invalidation failed")
		}
	}

	s.log.Info().
		Str("tenant_id", tenantID).
		Str("doctor_id", doctorID.String()).
		Int("windows", len(template.Windows)).
		Msg("schedule replaced")

	return &template, nil
}

// SweepNoShows marks every programada or confirmada appointment dated before
// the given day as no_asistio and returns how many were closed. Appointments
// that fail to update are logged and skipped.
func (s *AppointmentService) SweepNoShows(ctx context.Context, tenantID string, before domain.Date) (int, error) {
	if err := validateTenant(tenantID); err != nil {
		return 0, err
	}

	open, err := s.appointments.ListOpenBefore(ctx, tenantID, before)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	closed := 0
	for _, appt := range open {
		if err := ctx.Err(); err != nil {
			return closed, err
		}

		working := appt.Clone()
		if _, err := lifecycle.Apply(working, domain.EstadoNoAsistio, lifecycle.Data{}, SweepActor, s.now()); err != nil {
			s.log.Warn().Err(err).Str("appointment_id", appt.ID.String()).Msg("no-show transition rejected")
			continue
		}
		if err := s.persist(ctx, working); err != nil {
			s.log.Error().Err(err).Str("appointment_id", appt.ID.String()).Msg("failed to mark no-show")
			continue
		}
		closed++
	}

	s.log.Info().Str("tenant_id", tenantID).Str("before", before.String()).Int("closed", closed).Msg("no-show sweep finished")
	return closed, nil
}

// loadDoctor reads the doctor through the cache. Cache faults degrade to a
// repository read.
func (s *AppointmentService) loadDoctor(ctx context.Context, tenantID string, doctorID uuid.UUID) (*domain.Doctor, error) {
	if s.cache != nil {
		doc, ok, err := s.cache.Get(ctx, tenantID, doctorID)
		if err != nil {
			s.log.Warn().Err(customError.WrapCacheError(err)).Str("doctor_id", doctorID.String()).Msg("schedule cache read failed")
		} else if ok {
			return doc, nil
		}
	}

	doc, err := s.doctors.GetByID(ctx, tenantID, doctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, customError.WrapDoctorNotFound(doctorID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, doc); err != nil {
			s.log.Warn().Err(customError.WrapCacheError(err)).Str("doctor_id", doctorID.String()).Msg("schedule cache write failed")
		}
	}
	return doc, nil
}

func (s *AppointmentService) checkPatient(ctx context.Context, tenantID string, patientID uuid.UUID) error {
	exists, err := s.patients.Exists(ctx, tenantID, patientID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if !exists {
		return customError.WrapPatientNotFound(patientID.String())
	}
	return nil
}

func (s *AppointmentService) checkDuration(interval domain.TimeInterval) error {
	if !interval.Start.Valid() || !interval.End.Valid() {
		return customError.NewValidationError("end_time", "appointment must end on the same day")
	}
	if interval.Start >= interval.End {
		return customError.NewValidationError("end_time", "end_time must be after start_time")
	}
	if s.cfg.EnforceSlotDuration && interval.Duration() != s.cfg.SlotDuration {
		return customError.NewValidationError("end_time",
			fmt.Sprintf("appointments last exactly %d minutes", int(s.cfg.SlotDuration/time.Minute)))
	}
	return nil
}

func (s *AppointmentService) checkWithinSchedule(doc *domain.Doctor, date domain.Date, interval domain.TimeInterval) error {
	if !s.cfg.RequireWithinSchedule {
		return nil
	}
	if !doc.Schedule.Covers(date, interval) {
		return customError.NewValidationError("start_time",
			fmt.Sprintf("%s on %s is outside the doctor's working hours", interval, date))
	}
	return nil
}

func (s *AppointmentService) getAppointment(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, customError.WrapAppointmentNotFound(id.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return appt, nil
}

func (s *AppointmentService) persist(ctx context.Context, appt *domain.Appointment) error {
	err := s.appointments.Update(ctx, appt)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrSlotTaken):
		return s.storageConflict(ctx, appt)
	case errors.Is(err, repository.ErrNotFound):
		return customError.WrapAppointmentNotFound(appt.ID.String())
	}
	return customError.WrapDatabaseError(err)
}

// storageConflict builds the ConflictError for a write the storage layer
// rejected, naming the competing appointment when it is already visible.
func (s *AppointmentService) storageConflict(ctx context.Context, appt *domain.Appointment) error {
	err := s.guard.Validate(ctx, appt.TenantID, appt.DoctorID, appt.Date, appt.StartTime, appt.EndTime, &appt.ID)

	var conflict *customError.ConflictError
	if errors.As(err, &conflict) {
		return conflict
	}
	return customError.NewConflictError(uuid.Nil)
}

func (s *AppointmentService) logTransition(before, after *domain.Appointment) {
	s.log.Info().
		Str("tenant_id", after.TenantID).
		Str("appointment_id", after.ID.String()).
		Str("from", before.Estado.String()).
		Str("to", after.Estado.String()).
		Str("actor", after.UpdatedBy).
		Msg("appointment transitioned")
}

// runEffects carries out transition side effects after the write. Failures are
// logged; the transition itself has already been persisted.
func (s *AppointmentService) runEffects(ctx context.Context, appt *domain.Appointment, effects []lifecycle.Effect) {
	for _, effect := range effects {
		logger := s.log.With().Str("appointment_id", appt.ID.String()).Str("effect", string(effect)).Logger()

		switch effect {
		case lifecycle.EffectStartConsultationTimer:
			if s.timer == nil || appt.ConsultationStartedAt == nil {
				continue
			}
			if err := s.timer.Start(ctx, appt.TenantID, appt.ID, *appt.ConsultationStartedAt); err != nil {
				logger.Warn().Err(err).Msg("consultation timer start failed")
			}
		case lifecycle.EffectStopConsultationTimer:
			if s.timer == nil || appt.ConsultationEndedAt == nil {
				continue
			}
			elapsed, err := s.timer.Stop(ctx, appt.TenantID, appt.ID, *appt.ConsultationEndedAt)
			if err != nil {
				logger.Warn().Err(err).Msg("consultation timer stop failed")
				continue
			}
			logger.Debug().Dur("elapsed", elapsed).Msg("consultation finished")
		case lifecycle.EffectRecordLinkEligible:
			if s.linker == nil {
				continue
			}
			if err := s.linker.MarkEligible(ctx, appt); err != nil {
				logger.Warn().Err(err).Msg("record link enqueue failed")
			}
		case lifecycle.EffectPaymentCaptured:
			if appt.Payment != nil {
				logger.Debug().
					Str("deposit", appt.Payment.Deposit.String()).
					Str("total", appt.Payment.Total.String()).
					Msg("payment captured")
			}
		case lifecycle.EffectCancelled:
			logger.Debug().Str("reason", appt.CancelReason).Msg("appointment cancelled")
		}
	}
}
