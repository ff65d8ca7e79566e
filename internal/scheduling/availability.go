package scheduling

import (
	"sort"

	"stylemate_backend/internal/models"
)

// BuildAvailability combines a staff member's shift occurrences with approved
// time-off requests into one date-ordered availability feed over
// [queryStart, queryEnd]. Shifts become "shift" slots, approved time off
// becomes "timeoff" slots (full-day or time-bounded per the request's all-day
// flag). Overlaps between a shift and approved time off are surfaced side by
// side, never merged or hidden: that clash is a data condition handled at
// time-off approval, not here.
func BuildAvailability(occurrences []models.ShiftOccurrence, timeOff []models.TimeOffRequest, queryStart, queryEnd string) []models.AvailabilitySlot {
	slots := make([]models.AvailabilitySlot, 0, len(occurrences))
	for _, o := range occurrences {
		startTime, endTime := o.StartTime, o.EndTime
		slots = append(slots, models.AvailabilitySlot{
			Date:      o.Date,
			StartTime: &startTime,
			EndTime:   &endTime,
			Kind:      models.SlotKindShift,
		})
	}

	for _, req := range timeOff {
		if req.Status != models.TimeOffStatusApproved {
			continue
		}
		from, err := parseDate(maxDate(req.StartDate, queryStart))
		if err != nil {
			continue
		}
		to, err := parseDate(minDate(req.EndDate, queryEnd))
		if err != nil {
			continue
		}
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			slot := models.AvailabilitySlot{
				Date:   d.Format(models.DateFormat),
				AllDay: req.AllDay,
				Kind:   models.SlotKindTimeOff,
			}
			if !req.AllDay {
				slot.StartTime = req.StartTime
				slot.EndTime = req.EndTime
			}
			slots = append(slots, slot)
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return slotStart(a) < slotStart(b)
	})
	return slots
}

// slotStart orders slots within a day; all-day slots sort first.
func slotStart(s models.AvailabilitySlot) string {
	if s.StartTime == nil {
		return ""
	}
	return *s.StartTime
}

func maxDate(a, b string) string {
	if a > b {
		return a
	}
	return b
}

func minDate(a, b string) string {
	if a < b {
		return a
	}
	return b
}
