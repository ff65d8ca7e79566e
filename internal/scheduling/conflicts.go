package scheduling

import (
	"fmt"
	"time"

	"stylemate_backend/internal/models"
)

// WeeklyOvertimeThreshold is the fixed weekly hour total above which an
// overtime warning is raised. Not configurable per business.
const WeeklyOvertimeThreshold = 40.0

// Candidate describes a shift about to be created or edited, checked against
// a staff member's existing shifts before it is committed.
type Candidate struct {
	StaffID    int64
	Date       string // YYYY-MM-DD
	StartTime  string // HH:mm
	EndTime    string // HH:mm
	LocationID *int64
	// ExcludeShiftID lets an edit skip comparison against itself.
	ExcludeShiftID *int64
}

// CheckConflicts evaluates a candidate shift against the staff member's
// existing shifts and returns a severity-tagged conflict list. The slice of
// existing shifts must cover at least the candidate's week; cancelled shifts
// and shifts for other staff members are ignored.
//
// The detector never blocks anything itself: callers apply the policy that
// error-severity conflicts stop a write and warnings may be forced through.
func CheckConflicts(c Candidate, existing []models.Shift) []models.ShiftConflict {
	var conflicts []models.ShiftConflict

	var sameLocation, otherLocation, noLocation []models.Shift
	for _, s := range relevantShifts(c, existing) {
		if s.Date != c.Date {
			continue
		}
		// Half-open interval comparison: touching shifts do not overlap.
		if !(s.StartTime < c.EndTime && s.EndTime > c.StartTime) {
			continue
		}
		switch {
		case c.LocationID != nil && s.LocationID != nil && *s.LocationID == *c.LocationID:
			sameLocation = append(sameLocation, s)
		case c.LocationID != nil && s.LocationID != nil:
			otherLocation = append(otherLocation, s)
		default:
			noLocation = append(noLocation, s)
		}
	}

	if c.LocationID == nil {
		// Without a candidate location every overlap lands in the noLocation
		// bucket; all of them are reported as a single error entry.
		if len(noLocation) > 0 {
			first := noLocation[0]
			conflicts = append(conflicts, models.ShiftConflict{
				Type:     models.ConflictOverlap,
				Severity: models.SeverityError,
				Message:  fmt.Sprintf("Staff member already has a shift from %s to %s on %s", first.StartTime, first.EndTime, c.Date),
			})
		}
	} else {
		for _, s := range sameLocation {
			conflicts = append(conflicts, models.ShiftConflict{
				Type:     models.ConflictOverlap,
				Severity: models.SeverityError,
				Message:  fmt.Sprintf("Double booking: staff member already works from %s to %s at this location on %s", s.StartTime, s.EndTime, c.Date),
			})
		}
		for _, s := range otherLocation {
			conflicts = append(conflicts, models.ShiftConflict{
				Type:     models.ConflictLocation,
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("Staff member is booked at another location from %s to %s on %s", s.StartTime, s.EndTime, c.Date),
			})
		}
		// Location-less shifts are exact-duplicate risk, but a same-location
		// double booking already covers the slot with an error.
		if len(sameLocation) == 0 {
			for _, s := range noLocation {
				conflicts = append(conflicts, models.ShiftConflict{
					Type:     models.ConflictOverlap,
					Severity: models.SeverityError,
					Message:  fmt.Sprintf("Staff member already has a shift from %s to %s on %s", s.StartTime, s.EndTime, c.Date),
				})
			}
		}
	}

	if overtime, total := checkWeeklyOvertime(c, existing); overtime {
		conflicts = append(conflicts, models.ShiftConflict{
			Type:     models.ConflictOvertime,
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("Weekly total would reach %.1fh, over the %.0fh limit", total, WeeklyOvertimeThreshold),
		})
	}
	return conflicts
}

// CheckBulk runs the detector for each candidate and deduplicates the
// accumulated conflicts by (type, message), so identical findings against the
// same week are not repeated per candidate.
func CheckBulk(candidates []Candidate, existing []models.Shift) []models.ShiftConflict {
	seen := make(map[string]struct{})
	var conflicts []models.ShiftConflict
	for _, c := range candidates {
		for _, cf := range CheckConflicts(c, existing) {
			key := string(cf.Type) + "|" + cf.Message
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			conflicts = append(conflicts, cf)
		}
	}
	return conflicts
}

func checkWeeklyOvertime(c Candidate, existing []models.Shift) (bool, float64) {
	weekStart, weekEnd, err := overtimeWeek(c.Date)
	if err != nil {
		return false, 0
	}
	total := durationHours(c.StartTime, c.EndTime)
	for _, s := range relevantShifts(c, existing) {
		if s.Date < weekStart || s.Date > weekEnd {
			continue
		}
		total += durationHours(s.StartTime, s.EndTime)
	}
	return total > WeeklyOvertimeThreshold, total
}

// relevantShifts filters the existing set down to comparable shifts: same
// staff member, not cancelled, not the shift being edited.
func relevantShifts(c Candidate, existing []models.Shift) []models.Shift {
	var out []models.Shift
	for _, s := range existing {
		if s.StaffID != c.StaffID || s.Status == models.ShiftStatusCancelled {
			continue
		}
		if c.ExcludeShiftID != nil && s.ID == *c.ExcludeShiftID {
			continue
		}
		out = append(out, s)
	}
	return out
}

// overtimeWeek returns the closed week [date - weekday, date - weekday + 6]
// containing the given date. Week day-0 is Sunday, matching time.Weekday.
func overtimeWeek(date string) (string, string, error) {
	d, err := parseDate(date)
	if err != nil {
		return "", "", err
	}
	weekStart := d.AddDate(0, 0, -int(d.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 6)
	return weekStart.Format(models.DateFormat), weekEnd.Format(models.DateFormat), nil
}

func durationHours(startTime, endTime string) float64 {
	return float64(minutesOfDay(endTime)-minutesOfDay(startTime)) / 60.0
}

func minutesOfDay(hm string) int {
	t, err := time.Parse(models.TimeFormat, hm)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}
