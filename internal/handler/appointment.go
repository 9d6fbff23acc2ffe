package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/segyhp/clinic-scheduler/internal/domain"
	customError "github.com/segyhp/clinic-scheduler/pkg/errors"
	"github.com/segyhp/clinic-scheduler/pkg/response"
)

const (
	TenantHeader = "X-Tenant-ID"
	ActorHeader  = "X-User-ID"
)

var tenantPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// AppointmentService is the scheduling surface the HTTP layer depends on.
type AppointmentService interface {
	ListAvailableSlots(ctx context.Context, tenantID string, doctorID uuid.UUID, date domain.Date) (*domain.Availability, error)
	GetDoctorBookedIntervals(ctx context.Context, tenantID string, doctorID uuid.UUID, date domain.Date) ([]domain.TimeInterval, error)
	ListDoctorAppointments(ctx context.Context, tenantID string, doctorID uuid.UUID, date domain.Date) ([]*domain.Appointment, error)
	GetSchedule(ctx context.Context, tenantID string, doctorID uuid.UUID) (*domain.ScheduleTemplate, error)
	ReplaceSchedule(ctx context.Context, tenantID string, doctorID uuid.UUID, req *domain.ReplaceScheduleRequest) (*domain.ScheduleTemplate, error)

	CreateAppointment(ctx context.Context, tenantID, actor string, req *domain.CreateAppointmentRequest) (*domain.Appointment, error)
	GetAppointment(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Appointment, error)
	UpdateAppointment(ctx context.Context, tenantID, actor string, id uuid.UUID, req *domain.UpdateAppointmentRequest) (*domain.Appointment, error)
	CancelAppointment(ctx context.Context, tenantID, actor string, id uuid.UUID, reason string) (*domain.Appointment, error)
	ConfirmArrival(ctx context.Context, tenantID, actor string, id uuid.UUID, payment *domain.Payment) (*domain.Appointment, error)
	StartConsultation(ctx context.Context, tenantID, actor string, id uuid.UUID) (*domain.Appointment, error)
	CompleteConsultation(ctx context.Context, tenantID, actor string, id uuid.UUID) (*domain.Appointment, error)
	MarkNoShow(ctx context.Context, tenantID, actor string, id uuid.UUID) (*domain.Appointment, error)
}

type AppointmentHandler struct {
	service   AppointmentService
	validator *validator.Validate
}

func NewAppointmentHandler(service AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		service:   service,
		validator: domain.NewValidator(),
	}
}

// RegisterRoutes mounts the scheduling API under /api/v1.
func (h *AppointmentHandler) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/doctors/{doctorId}/slots", h.ListAvailableSlots).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{doctorId}/booked-intervals", h.GetBookedIntervals).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{doctorId}/appointments", h.ListDoctorAppointments).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{doctorId}/schedule", h.GetSchedule).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{doctorId}/schedule", h.ReplaceSchedule).Methods(http.MethodPut)

	api.HandleFunc("/appointments", h.CreateAppointment).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{id}", h.GetAppointment).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{id}", h.UpdateAppointment).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{id}/cancel", h.CancelAppointment).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{id}/confirm", h.ConfirmArrival).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{id}/start", h.StartConsultation).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{id}/complete", h.CompleteConsultation).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{id}/no-show", h.MarkNoShow).Methods(http.MethodPost)
}

// ListAvailableSlots handles GET /doctors/{doctorId}/slots?date=YYYY-MM-DD
func (h *AppointmentHandler) ListAvailableSlots(w http.ResponseWriter, r *http.Request) {
	tenantID, doctorID, date, ok := h.doctorDay(w, r)
	if !ok {
		return
	}

	result, err := h.service.ListAvailableSlots(r.Context(), tenantID, doctorID, date)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, result)
}

// GetBookedIntervals handles GET /doctors/{doctorId}/booked-intervals?date=YYYY-MM-DD
func (h *AppointmentHandler) GetBookedIntervals(w http.ResponseWriter, r *http.Request) {
	tenantID, doctorID, date, ok := h.doctorDay(w, r)
	if !ok {
		return
	}

	intervals, err := h.service.GetDoctorBookedIntervals(r.Context(), tenantID, doctorID, date)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, intervals)
}

// ListDoctorAppointments handles GET /doctors/{doctorId}/appointments?date=YYYY-MM-DD
func (h *AppointmentHandler) ListDoctorAppointments(w http.ResponseWriter, r *http.Request) {
	tenantID, doctorID, date, ok := h.doctorDay(w, r)
	if !ok {
		return
	}

	appointments, err := h.service.ListDoctorAppointments(r.Context(), tenantID, doctorID, date)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, appointments)
}

func (h *AppointmentHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return
	}
	doctorID, ok := pathUUID(w, r, "doctorId")
	if !ok {
		return
	}

	template, err := h.service.GetSchedule(r.Context(), tenantID, doctorID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, template)
}

func (h *AppointmentHandler) ReplaceSchedule(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return
	}
	doctorID, ok := pathUUID(w, r, "doctorId")
	if !ok {
		return
	}

	var req domain.ReplaceScheduleRequest
	if !h.decode(w, r, &req) {
		return
	}

	template, err := h.service.ReplaceSchedule(r.Context(), tenantID, doctorID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, template)
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return
	}

	var req domain.CreateAppointmentRequest
	if !h.decode(w, r, &req) {
		return
	}

	appt, err := h.service.CreateAppointment(r.Context(), tenantID, actor(r), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, appt)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	appt, err := h.service.GetAppointment(r.Context(), tenantID, id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, appt)
}

func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdateAppointmentRequest
	if !h.decode(w, r, &req) {
		return
	}

	appt, err := h.service.UpdateAppointment(r.Context(), tenantID, actor(r), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, appt)
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	// An empty body reaches the lifecycle, which reports the missing reason
	var req domain.CancelAppointmentRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	appt, err := h.service.CancelAppointment(r.Context(), tenantID, actor(r), id, req.CancelReason)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, appt)
}

func (h *AppointmentHandler) ConfirmArrival(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req domain.ConfirmArrivalRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	appt, err := h.service.ConfirmArrival(r.Context(), tenantID, actor(r), id, req.Payment)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, appt)
}

func (h *AppointmentHandler) StartConsultation(w http.ResponseWriter, r *http.Request) {
	h.simpleTransition(w, r, h.service.StartConsultation)
}

func (h *AppointmentHandler) CompleteConsultation(w http.ResponseWriter, r *http.Request) {
	h.simpleTransition(w, r, h.service.CompleteConsultation)
}

func (h *AppointmentHandler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	h.simpleTransition(w, r, h.service.MarkNoShow)
}

type transitionFunc func(ctx context.Context, tenantID, actor string, id uuid.UUID) (*domain.Appointment, error)

func (h *AppointmentHandler) simpleTransition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	appt, err := fn(r.Context(), tenantID, actor(r), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, appt)
}

// decodeOptional reads a JSON body into dst. A missing body leaves dst zero.
func decodeOptional(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request body", customError.NewValidationError("", err.Error()))
		return false
	}
	return true
}

// decode reads a JSON body into dst and runs struct validation.
func (h *AppointmentHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body", customError.NewValidationError("", err.Error()))
		return false
	}
	if err := domain.ValidateStruct(h.validator, dst); err != nil {
		response.FromError(w, err)
		return false
	}
	return true
}

func (h *AppointmentHandler) doctorDay(w http.ResponseWriter, r *http.Request) (string, uuid.UUID, domain.Date, bool) {
	tenantID, ok := tenant(w, r)
	if !ok {
		return "", uuid.Nil, domain.Date{}, false
	}
	doctorID, ok := pathUUID(w, r, "doctorId")
	if !ok {
		return "", uuid.Nil, domain.Date{}, false
	}

	raw := r.URL.Query().Get("date")
	if raw == "" {
		response.FromError(w, customError.NewValidationError("date", "query parameter is required"))
		return "", uuid.Nil, domain.Date{}, false
	}
	date, err := domain.ParseDate(raw)
	if err != nil {
		response.FromError(w, customError.NewValidationError("date", "must be a date in YYYY-MM-DD format"))
		return "", uuid.Nil, domain.Date{}, false
	}
	return tenantID, doctorID, date, true
}

func tenant(w http.ResponseWriter, r *http.Request) (string, bool) {
	tenantID := r.Header.Get(TenantHeader)
	if !tenantPattern.MatchString(tenantID) {
		response.FromError(w, customError.NewValidationError("tenant_id", TenantHeader+" header is missing or invalid"))
		return "", false
	}
	return tenantID, true
}

func actor(r *http.Request) string {
	return r.Header.Get(ActorHeader)
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.FromError(w, customError.NewValidationError(name, "must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}
