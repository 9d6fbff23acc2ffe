// Package availability turns a doctor's weekly template into bookable slots.
package availability

import (
	"sort"
	"time"

	"github.com/segyhp/clinic-scheduler/internal/domain"
)

// ComputeSlots enumerates the slots of every active window matching the
// ISO weekday of date. A slot is unavailable when it overlaps any booked
// interval. Trailing partial slots are never offered. The result is
// chronological and depends only on the arguments.
func ComputeSlots(schedule domain.ScheduleTemplate, date domain.Date, booked []domain.TimeInterval, slotDuration time.Duration) []domain.Slot {
	step := normalizeDuration(slotDuration)
	slots := make([]domain.Slot, 0)
	seen := make(map[domain.TimeOfDay]bool)

	for _, w := range schedule.ActiveWindows(date.ISOWeekday()) {
		for start := w.StartTime; start.Add(step) <= w.EndTime; start = start.Add(step) {
			if seen[start] {
				continue
			}
			seen[start] = true

			interval := domain.TimeInterval{Start: start, End: start.Add(step)}
			slots = append(slots, domain.Slot{
				Time:      interval.Start,
				EndTime:   interval.End,
				Available: !overlapsAny(interval, booked),
			})
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Time < slots[j].Time
	})

	return slots
}

// Status tells the caller why a slot list may be empty.
func Status(schedule domain.ScheduleTemplate, date domain.Date) string {
	if !schedule.HasActiveWindows() {
		return domain.AvailabilityNoSchedule
	}
	if len(schedule.ActiveWindows(date.ISOWeekday())) == 0 {
		return domain.AvailabilityDayOff
	}
	return domain.AvailabilityOpen
}

// Message is the caller-facing explanation for a status.
func Message(status string, slots []domain.Slot) string {
	switch status {
	case domain.AvailabilityNoSchedule:
		return "doctor has no weekly schedule configured"
	case domain.AvailabilityDayOff:
		return "doctor does not work on this day"
	}
	for _, s := range slots {
		if s.Available {
			return ""
		}
	}
	return "all slots are booked"
}

// normalizeDuration falls back to the default for durations under a minute,
// which would otherwise never advance a TimeOfDay.
func normalizeDuration(d time.Duration) time.Duration {
	d = d.Truncate(time.Minute)
	if d <= 0 {
		return domain.DefaultSlotDuration
	}
	return d
}

func overlapsAny(interval domain.TimeInterval, booked []domain.TimeInterval) bool {
	for _, b := range booked {
		if interval.Overlaps(b) {
			return true
		}
	}
	return false
}
