package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	customError "github.com/segyhp/clinic-scheduler/pkg/errors"
)

// DefaultSlotDuration is used whenever a caller does not configure one.
const DefaultSlotDuration = 30 * time.Minute

// Availability statuses
const (
	AvailabilityOpen       = "open"
	AvailabilityDayOff     = "day_off"
	AvailabilityNoSchedule = "no_schedule"
)

// TimeInterval is a half-open [Start, End) interval within one day.
type TimeInterval struct {
	Start TimeOfDay `json:"start_time"`
	End   TimeOfDay `json:"end_time"`
}

// Overlaps reports whether the two half-open intervals intersect.
// Back-to-back intervals (a.End == b.Start) do not overlap.
func (i TimeInterval) Overlaps(o TimeInterval) bool {
	return i.Start < o.End && o.Start < i.End
}

// Within reports whether i lies entirely inside o.
func (i TimeInterval) Within(o TimeInterval) bool {
	return i.Start >= o.Start && i.End <= o.End
}

func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i TimeInterval) String() string {
	return fmt.Sprintf("%s-%s", i.Start, i.End)
}

// ScheduleWindow is one recurring weekly availability interval.
type ScheduleWindow struct {
	ID        uuid.UUID `json:"id"`
	DayOfWeek int       `json:"day_of_week"`
	StartTime TimeOfDay `json:"start_time"`
	EndTime   TimeOfDay `json:"end_time"`
	Active    bool      `json:"active"`
}

func (w ScheduleWindow) Interval() TimeInterval {
	return TimeInterval{Start: w.StartTime, End: w.EndTime}
}

// ScheduleTemplate is a doctor's weekly availability.
type ScheduleTemplate struct {
	DoctorID uuid.UUID        `json:"doctor_id"`
	Windows  []ScheduleWindow `json:"windows"`
}

// ActiveWindows returns the active windows for an ISO weekday in chronological order.
func (s ScheduleTemplate) ActiveWindows(dayOfWeek int) []ScheduleWindow {
	var windows []ScheduleWindow
	for _, w := range s.Windows {
		if w.Active && w.DayOfWeek == dayOfWeek {
			windows = append(windows, w)
		}
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].StartTime < windows[j].StartTime
	})
	return windows
}

// HasActiveWindows reports whether any weekday has an active window.
func (s ScheduleTemplate) HasActiveWindows() bool {
	for _, w := range s.Windows {
		if w.Active {
			return true
		}
	}
	return false
}

// Covers reports whether the interval on the given date falls inside one active window.
func (s ScheduleTemplate) Covers(date Date, interval TimeInterval) bool {
	for _, w := range s.ActiveWindows(date.ISOWeekday()) {
		if interval.Within(w.Interval()) {
			return true
		}
	}
	return false
}

// Validate checks window bounds and that active windows on the same weekday do not overlap.
func (s ScheduleTemplate) Validate() error {
	for i, w := range s.Windows {
		field := fmt.Sprintf("windows[%d]", i)
		if w.DayOfWeek < 1 || w.DayOfWeek > 7 {
			return customError.NewValidationError(field+".day_of_week", "must be between 1 (Monday) and 7 (Sunday)")
		}
		if !w.StartTime.Valid() || !w.EndTime.Valid() {
			return customError.NewValidationError(field, "times must fall within a single day")
		}
		if w.StartTime >= w.EndTime {
			return customError.NewValidationError(field, "start_time must be before end_time")
		}
	}

	for day := 1; day <= 7; day++ {
		windows := s.ActiveWindows(day)
		for i := 1; i < len(windows); i++ {
			if windows[i-1].Interval().Overlaps(windows[i].Interval()) {
				return customError.NewValidationError("windows",
					fmt.Sprintf("active windows %s and %s overlap on day %d",
						windows[i-1].Interval(), windows[i].Interval(), day))
			}
		}
	}

	return nil
}

// Slot is a candidate bookable interval derived from a schedule window.
type Slot struct {
	Time      TimeOfDay `json:"time"`
	EndTime   TimeOfDay `json:"end_time"`
	Available bool      `json:"available"`
}

func (s Slot) Interval() TimeInterval {
	return TimeInterval{Start: s.Time, End: s.EndTime}
}

// Doctor is referenced by appointments; the scheduling core only reads its template.
type Doctor struct {
	ID       uuid.UUID        `json:"id"`
	TenantID string           `json:"tenant_id"`
	Name     string           `json:"name"`
	Schedule ScheduleTemplate `json:"schedule"`
}

// Patient is referenced by appointments.
type Patient struct {
	ID       uuid.UUID `json:"id"`
	TenantID string    `json:"tenant_id"`
	Name     string    `json:"name"`
}

// Availability is the caller-facing answer of a slot listing.
type Availability struct {
	DoctorID    uuid.UUID `json:"doctor_id"`
	Date        Date      `json:"date"`
	DayOfWeek   int       `json:"day_of_week"`
	SlotMinutes int       `json:"slot_minutes"`
	Status      string    `json:"status"`
	Message     string    `json:"message,omitempty"`
	Slots       []Slot    `json:"slots"`
}

// ReplaceScheduleRequest replaces a doctor's whole weekly template.
type ReplaceScheduleRequest struct {
	Windows []ScheduleWindowRequest `json:"windows" validate:"dive"`
}

type ScheduleWindowRequest struct {
	DayOfWeek int    `json:"day_of_week" validate:"required,min=1,max=7"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
	Active    *bool  `json:"active"`
}
