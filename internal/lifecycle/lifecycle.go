// Package lifecycle governs estado transitions of an appointment and the
// side effects each one triggers.
package lifecycle

import (
	"strings"
	"time"

	"github.com/segyhp/clinic-scheduler/internal/domain"
	customError "github.com/segyhp/clinic-scheduler/pkg/errors"
)

// Effect is a side effect the caller must carry out after persisting a transition.
type Effect string

const (
	EffectPaymentCaptured        Effect = "payment_captured"
	EffectCancelled              Effect = "cancelled"
	EffectStartConsultationTimer Effect = "start_consultation_timer"
	EffectStopConsultationTimer  Effect = "stop_consultation_timer"
	EffectRecordLinkEligible     Effect = "record_link_eligible"
)

var transitions = map[domain.Estado][]domain.Estado{
	domain.EstadoProgramada: {domain.EstadoConfirmada, domain.EstadoCancelada, domain.EstadoNoAsistio},
	domain.EstadoConfirmada: {domain.EstadoEnCurso, domain.EstadoCancelada, domain.EstadoNoAsistio},
	domain.EstadoEnCurso:    {domain.EstadoCompletada},
}

// Data carries what individual transitions require.
type Data struct {
	Payment      *domain.Payment
	CancelReason string
}

// CanTransition reports whether from -> to appears in the transition table.
func CanTransition(from, to domain.Estado) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Allowed lists the states reachable from from.
func Allowed(from domain.Estado) []domain.Estado {
	next := transitions[from]
	out := make([]domain.Estado, len(next))
	copy(out, next)
	return out
}

// Apply moves appt to the target state. Every check runs before the first
// field is written, so appt is untouched whenever an error is returned.
func Apply(appt *domain.Appointment, to domain.Estado, data Data, actor string, now time.Time) ([]Effect, error) {
	if !to.Valid() {
		return nil, customError.NewValidationError("estado", "unknown estado "+to.String())
	}
	from := appt.Estado
	if !CanTransition(from, to) {
		return nil, customError.NewInvalidTransitionError(from.String(), to.String())
	}

	reason := strings.TrimSpace(data.CancelReason)
	switch to {
	case domain.EstadoConfirmada:
		if data.Payment == nil {
			return nil, customError.NewMissingTransitionDataError(to.String(), "payment")
		}
		if err := data.Payment.Validate(); err != nil {
			return nil, err
		}
	case domain.EstadoCancelada:
		if reason == "" {
			return nil, customError.NewMissingTransitionDataError(to.String(), "cancel_reason")
		}
	}

	var effects []Effect
	switch to {
	case domain.EstadoConfirmada:
		p := *data.Payment
		appt.Payment = &p
		effects = append(effects, EffectPaymentCaptured)
	case domain.EstadoCancelada:
		appt.CancelReason = reason
		cancelledAt := now
		appt.CancelledAt = &cancelledAt
		effects = append(effects, EffectCancelled)
	case domain.EstadoEnCurso:
		startedAt := now
		appt.ConsultationStartedAt = &startedAt
		effects = append(effects, EffectStartConsultationTimer)
	case domain.EstadoCompletada:
		endedAt := now
		appt.ConsultationEndedAt = &endedAt
		appt.RecordLinkEligible = true
		effects = append(effects, EffectStopConsultationTimer, EffectRecordLinkEligible)
	}

	appt.Estado = to
	appt.UpdatedAt = now
	appt.UpdatedBy = actor

	return effects, nil
}
