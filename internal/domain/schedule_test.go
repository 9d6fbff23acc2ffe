package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	customError "github.com/segyhp/clinic-scheduler/pkg/errors"
)

func window(day int, start, end string, active bool) ScheduleWindow {
	s, _ := ParseTimeOfDay(start)
	e, _ := ParseTimeOfDay(end)
	return ScheduleWindow{DayOfWeek: day, StartTime: s, EndTime: e, Active: active}
}

func TestTimeInterval_Overlaps(t *testing.T) {
	base := TimeInterval{Start: NewTimeOfDay(10, 0), End: NewTimeOfDay(10, 30)}

	tests := []struct {
		name  string
		other TimeInterval
		want  bool
	}{
		{"identical", base, true},
		{"starts inside", TimeInterval{NewTimeOfDay(10, 15), NewTimeOfDay(10, 45)}, true},
		{"contains", TimeInterval{NewTimeOfDay(9, 0), NewTimeOfDay(11, 0)}, true},
		{"back to back after", TimeInterval{NewTimeOfDay(10, 30), NewTimeOfDay(11, 0)}, false},
		{"back to back before", TimeInterval{NewTimeOfDay(9, 30), NewTimeOfDay(10, 0)}, false},
		{"disjoint", TimeInterval{NewTimeOfDay(12, 0), NewTimeOfDay(12, 30)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestScheduleTemplate_ActiveWindows(t *testing.T) {
	tmpl := ScheduleTemplate{Windows: []ScheduleWindow{
		window(2, "14:00", "18:00", true),
		window(2, "08:00", "12:00", true),
		window(2, "12:00", "13:00", false),
		window(3, "09:00", "12:00", true),
	}}

	windows := tmpl.ActiveWindows(2)
	if assert.Len(t, windows, 2) {
		assert.Equal(t, NewTimeOfDay(8, 0), windows[0].StartTime)
		assert.Equal(t, NewTimeOfDay(14, 0), windows[1].StartTime)
	}
	assert.Empty(t, tmpl.ActiveWindows(7))
	assert.True(t, tmpl.HasActiveWindows())

	tuesday := NewDate(2024, 1, 2)
	assert.True(t, tmpl.Covers(tuesday, TimeInterval{NewTimeOfDay(11, 30), NewTimeOfDay(12, 0)}))
	assert.False(t, tmpl.Covers(tuesday, TimeInterval{NewTimeOfDay(11, 45), NewTimeOfDay(12, 15)}))
	assert.False(t, tmpl.Covers(tuesday, TimeInterval{NewTimeOfDay(12, 0), NewTimeOfDay(12, 30)}), "inactive window must not cover")
}

func TestScheduleTemplate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		windows []ScheduleWindow
		wantErr bool
	}{
		{"split shift", []ScheduleWindow{window(1, "08:00", "12:00", true), window(1, "12:00", "16:00", true)}, false},
		{"overlapping active windows", []ScheduleWindow{window(1, "08:00", "12:00", true), window(1, "11:00", "16:00", true)}, true},
		{"overlap with inactive window is allowed", []ScheduleWindow{window(1, "08:00", "12:00", true), window(1, "11:00", "16:00", false)}, false},
		{"start after end", []ScheduleWindow{window(1, "12:00", "08:00", true)}, true},
		{"empty window", []ScheduleWindow{window(1, "08:00", "08:00", true)}, true},
		{"day zero", []ScheduleWindow{window(0, "08:00", "12:00", true)}, true},
		{"day eight", []ScheduleWindow{window(8, "08:00", "12:00", true)}, true},
		{"no windows", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ScheduleTemplate{Windows: tt.windows}.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, customError.ErrValidation))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseEstado(t *testing.T) {
	for _, canonical := range []string{"programada", "confirmada", "en_curso", "completada", "cancelada", "no_asistio"} {
		e, err := ParseEstado(canonical)
		assert.NoError(t, err)
		assert.Equal(t, canonical, e.String())
	}

	for _, variant := range []string{"programado", "en-curso", "PROGRAMADA", "", "noshow"} {
		_, err := ParseEstado(variant)
		assert.True(t, errors.Is(err, customError.ErrValidation), "expected %q to be rejected", variant)
	}
}

func TestPayment_Validate(t *testing.T) {
	d := decimal.RequireFromString

	assert.NoError(t, Payment{Deposit: d("20.00"), Balance: d("30.00"), Total: d("50.00")}.Validate())
	assert.NoError(t, Payment{Deposit: d("50"), Balance: d("0"), Total: d("50"), Settled: true}.Validate())

	assert.Error(t, Payment{Deposit: d("20"), Balance: d("20"), Total: d("50")}.Validate())
	assert.Error(t, Payment{Deposit: d("-1"), Balance: d("51"), Total: d("50")}.Validate())
	assert.Error(t, Payment{Deposit: d("20"), Balance: d("30"), Total: d("50"), Settled: true}.Validate())
}

func TestAppointment_CloneIsDeep(t *testing.T) {
	appt := &Appointment{
		Estado:  EstadoConfirmada,
		Payment: &Payment{Deposit: decimal.NewFromInt(10), Total: decimal.NewFromInt(10)},
	}

	c := appt.Clone()
	c.Payment.Settled = true
	c.Estado = EstadoEnCurso

	assert.False(t, appt.Payment.Settled)
	assert.Equal(t, EstadoConfirmada, appt.Estado)
}
