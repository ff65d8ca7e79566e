package scheduling

import (
	"fmt"
	"sort"

	"stylemate_backend/internal/models"
)

// Merge unions persisted one-off shifts with the expansion of the given
// recurring patterns over [queryStart, queryEnd] into one chronologically
// ordered occurrence feed.
//
// When a persisted shift is an override for a pattern day (IsOverride set and
// PatternID matching), the virtual occurrence for that pattern and date is
// suppressed so a day edited individually shows up exactly once. Ordering is
// by date, then start time; on a full tie, persisted shifts sort before
// virtual pattern occurrences.
//
// Merge is read-only: it never materializes a shift row for a virtual
// occurrence.
func Merge(shifts []models.Shift, patterns []models.RecurringShiftPattern, queryStart, queryEnd string) []models.ShiftOccurrence {
	overridden := make(map[string]struct{})
	for _, s := range shifts {
		if s.IsOverride && s.PatternID != nil {
			overridden[overrideKey(*s.PatternID, s.Date)] = struct{}{}
		}
	}

	occurrences := make([]models.ShiftOccurrence, 0, len(shifts))
	for _, s := range shifts {
		occurrences = append(occurrences, models.OccurrenceFromShift(s))
	}
	for _, p := range patterns {
		for _, occ := range Expand(p, queryStart, queryEnd) {
			if _, ok := overridden[overrideKey(p.ID, occ.Date)]; ok {
				continue
			}
			occurrences = append(occurrences, occ)
		}
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		a, b := occurrences[i], occurrences[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.IsPersisted() && !b.IsPersisted()
	})
	return occurrences
}

func overrideKey(patternID int64, date string) string {
	return fmt.Sprintf("%d|%s", patternID, date)
}
