// Package scheduling implements the scheduling engine: recurring pattern
// expansion, occurrence merging, conflict detection and availability
// aggregation. All functions are pure over already-fetched, already-validated
// inputs; services own the persistence boundary and the blocking policy.
package scheduling

import (
	"time"

	"github.com/teambition/rrule-go"
)

// Frequency is the closed set of recurrence frequencies the engine supports.
type Frequency int

const (
	// FreqNone marks a rule that generates no occurrences, either because
	// the rule string was unrecognized or named an unsupported frequency.
	FreqNone Frequency = iota
	FreqDaily
	FreqWeekly
)

// Rule is a recurrence rule narrowed to what shift patterns can express:
// daily, or weekly on a fixed set of weekdays.
type Rule struct {
	Freq     Frequency
	Weekdays map[time.Weekday]bool
}

// ParseRule parses a compact recurrence rule string such as "FREQ=DAILY" or
// "FREQ=WEEKLY;BYDAY=MO,WE,FR". Anything unrecognized, including frequencies
// outside the supported set, yields an inert rule rather than an error: the
// boundary validator rejects malformed rules before they are stored, so a bad
// rule reaching the engine should produce nothing instead of wrong data.
func ParseRule(raw string) Rule {
	opt, err := rrule.StrToROption(raw)
	if err != nil {
		return Rule{}
	}
	switch opt.Freq {
	case rrule.DAILY:
		return Rule{Freq: FreqDaily}
	case rrule.WEEKLY:
		weekdays := make(map[time.Weekday]bool, len(opt.Byweekday))
		for _, wd := range opt.Byweekday {
			// rrule weekdays are 0=Monday..6=Sunday; time.Weekday is 0=Sunday.
			weekdays[time.Weekday((wd.Day()+1)%7)] = true
		}
		return Rule{Freq: FreqWeekly, Weekdays: weekdays}
	default:
		return Rule{}
	}
}

// IsValidRecurrenceRule reports whether the rule string names a supported
// frequency. Used by the boundary validator at pattern creation; a WEEKLY
// rule with no BYDAY set is legal but inert.
func IsValidRecurrenceRule(raw string) bool {
	return ParseRule(raw).Freq != FreqNone
}

// FiresOn reports whether the rule generates an occurrence on the given date.
func (r Rule) FiresOn(date time.Time) bool {
	switch r.Freq {
	case FreqDaily:
		return true
	case FreqWeekly:
		return r.Weekdays[date.Weekday()]
	default:
		return false
	}
}
