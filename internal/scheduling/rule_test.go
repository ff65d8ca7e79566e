package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRule(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		freq     Frequency
		weekdays []time.Weekday
	}{
		{"daily", "FREQ=DAILY", FreqDaily, nil},
		{"weekly single day", "FREQ=WEEKLY;BYDAY=MO", FreqWeekly, []time.Weekday{time.Monday}},
		{"weekly several days", "FREQ=WEEKLY;BYDAY=MO,WE,FR", FreqWeekly, []time.Weekday{time.Monday, time.Wednesday, time.Friday}},
		{"weekly weekend", "FREQ=WEEKLY;BYDAY=SA,SU", FreqWeekly, []time.Weekday{time.Saturday, time.Sunday}},
		{"weekly without byday is inert but weekly", "FREQ=WEEKLY", FreqWeekly, nil},
		{"monthly unsupported", "FREQ=MONTHLY", FreqNone, nil},
		{"garbage", "NOT-A-RULE", FreqNone, nil},
		{"empty", "", FreqNone, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := ParseRule(tt.raw)
			assert.Equal(t, tt.freq, rule.Freq)
			assert.Len(t, rule.Weekdays, len(tt.weekdays))
			for _, wd := range tt.weekdays {
				assert.True(t, rule.Weekdays[wd], "expected weekday %s", wd)
			}
		})
	}
}

func TestRuleFiresOn(t *testing.T) {
	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	assert.True(t, ParseRule("FREQ=DAILY").FiresOn(monday))
	assert.True(t, ParseRule("FREQ=WEEKLY;BYDAY=MO").FiresOn(monday))
	assert.False(t, ParseRule("FREQ=WEEKLY;BYDAY=MO").FiresOn(tuesday))
	assert.False(t, ParseRule("FREQ=WEEKLY").FiresOn(monday))
	assert.False(t, Rule{}.FiresOn(monday))
}

func TestIsValidRecurrenceRule(t *testing.T) {
	assert.True(t, IsValidRecurrenceRule("FREQ=DAILY"))
	assert.True(t, IsValidRecurrenceRule("FREQ=WEEKLY;BYDAY=TU,TH"))
	assert.False(t, IsValidRecurrenceRule("FREQ=YEARLY"))
	assert.False(t, IsValidRecurrenceRule("BYDAY=MO"))
	assert.False(t, IsValidRecurrenceRule(""))
}
