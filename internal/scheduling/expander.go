package scheduling

import (
	"time"

	"stylemate_backend/internal/models"
)

// Expand produces the concrete occurrences a recurring pattern generates
// within the closed date range [queryStart, queryEnd], intersected with the
// pattern's own validity window. Inactive patterns, inert rules, unparseable
// dates and empty effective ranges all yield nil.
func Expand(p models.RecurringShiftPattern, queryStart, queryEnd string) []models.ShiftOccurrence {
	if !p.IsActive {
		return nil
	}
	rule := ParseRule(p.RecurrenceRule)
	if rule.Freq == FreqNone {
		return nil
	}

	from, err := parseDate(queryStart)
	if err != nil {
		return nil
	}
	to, err := parseDate(queryEnd)
	if err != nil {
		return nil
	}
	patternStart, err := parseDate(p.StartDate)
	if err != nil {
		return nil
	}
	if patternStart.After(from) {
		from = patternStart
	}
	if p.EndDate != nil {
		patternEnd, err := parseDate(*p.EndDate)
		if err != nil {
			return nil
		}
		if patternEnd.Before(to) {
			to = patternEnd
		}
	}
	if from.After(to) {
		return nil
	}

	var occurrences []models.ShiftOccurrence
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if rule.FiresOn(d) {
			occurrences = append(occurrences, models.OccurrenceFromPattern(p, d.Format(models.DateFormat)))
		}
	}
	return occurrences
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(models.DateFormat, s)
}
