package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	customError "github.com/segyhp/clinic-scheduler/pkg/errors"
)

type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type ErrorResponse struct {
	Success   bool                   `json:"success"`
	Code      string                 `json:"code,omitempty"`
	Error     string                 `json:"error"`
	Message   string                 `json:"message,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	response := Response{
		Success:   statusCode >= 200 && statusCode < 300,
		Data:      data,
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("error encoding JSON response")
	}
}

// Success sends a successful JSON response
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Created sends a created JSON response
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// Error sends an error JSON response
func Error(w http.ResponseWriter, statusCode int, message string, err error) {
	response := ErrorResponse{
		Success:   false,
		Message:   message,
		Timestamp: time.Now(),
	}

	if err != nil {
		response.Code = customError.Code(err)
		response.Error = err.Error()
		response.Details = details(err)
	}

	write(w, statusCode, response)
}

func write(w http.ResponseWriter, statusCode int, response ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		log.Error().Err(encodeErr).Msg("error encoding error response")
	}
}

// details exposes the structured part of typed errors to clients.
func details(err error) map[string]interface{} {
	var (
		validation *customError.ValidationError
		conflict   *customError.ConflictError
		transition *customError.InvalidTransitionError
		missing    *customError.MissingTransitionDataError
		notFound   *customError.NotFoundError
	)
	switch {
	case errors.As(err, &validation):
		if validation.Field == "" {
			return nil
		}
		return map[string]interface{}{"field": validation.Field}
	case errors.As(err, &conflict):
		d := map[string]interface{}{"existing_appointment_id": nil}
		if conflict.ExistingAppointmentID != uuid.Nil {
			d["existing_appointment_id"] = conflict.ExistingAppointmentID.String()
		}
		return d
	case errors.As(err, &transition):
		return map[string]interface{}{"from": transition.From, "to": transition.To}
	case errors.As(err, &missing):
		return map[string]interface{}{"to": missing.To, "field": missing.Field}
	case errors.As(err, &notFound):
		return map[string]interface{}{"resource": notFound.Resource, "id": notFound.ID}
	}
	return nil
}

// StatusFor maps a service error onto its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, customError.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, customError.ErrMissingTransitionData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, customError.ErrInvalidTransition), errors.Is(err, customError.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, customError.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// FromError writes err with the status StatusFor picks. Internal faults are
// logged and their cause is not sent to the client.
func FromError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
		write(w, status, ErrorResponse{
			Success:   false,
			Code:      customError.Code(err),
			Error:     http.StatusText(status),
			Message:   "Internal server error",
			Timestamp: time.Now(),
		})
		return
	}
	Error(w, status, http.StatusText(status), err)
}

// BadRequest sends a 400 bad request response
func BadRequest(w http.ResponseWriter, message string, err error) {
	Error(w, http.StatusBadRequest, message, err)
}

// ServiceUnavailable sends a 503 response carrying data, e.g. failed health checks
func ServiceUnavailable(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusServiceUnavailable, data)
}

// CORSMiddleware adds CORS headers
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Tenant-ID, X-User-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response recorder to capture the status code
			recorder := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(recorder, r)

			event := logger.Info()
			if recorder.statusCode >= http.StatusInternalServerError {
				event = logger.Error()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("tenant_id", r.Header.Get("X-Tenant-ID")).
				Int("status", recorder.statusCode).
				Dur("duration", time.Since(start)).
				Msg("http request")
		})
	}
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *responseRecorder) WriteHeader(statusCode int) {
	rec.statusCode = statusCode
	rec.ResponseWriter.WriteHeader(statusCode)
}
