package models

import "time"

// Date and time formats used across the scheduling API.
// Dates travel as YYYY-MM-DD strings, times as 24h HH:mm strings.
const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

// ShiftType defines the closed set of shift categories.
type ShiftType string

const (
	ShiftTypeOpening ShiftType = "opening"
	ShiftTypeMid     ShiftType = "mid"
	ShiftTypeClosing ShiftType = "closing"
	ShiftTypeCustom  ShiftType = "custom"
)

// IsValidShiftType checks if the provided string is a valid ShiftType.
func IsValidShiftType(t string) bool {
	switch ShiftType(t) {
	case ShiftTypeOpening, ShiftTypeMid, ShiftTypeClosing, ShiftTypeCustom:
		return true
	default:
		return false
	}
}

// ShiftStatus defines the lifecycle states of a shift.
type ShiftStatus string

const (
	ShiftStatusScheduled ShiftStatus = "scheduled"
	ShiftStatusConfirmed ShiftStatus = "confirmed"
	ShiftStatusCompleted ShiftStatus = "completed"
	ShiftStatusCancelled ShiftStatus = "cancelled"
	ShiftStatusNoShow    ShiftStatus = "no-show"
)

// IsValidShiftStatus checks if the provided string is a valid ShiftStatus.
func IsValidShiftStatus(s string) bool {
	switch ShiftStatus(s) {
	case ShiftStatusScheduled, ShiftStatusConfirmed, ShiftStatusCompleted,
		ShiftStatusCancelled, ShiftStatusNoShow:
		return true
	default:
		return false
	}
}

// Shift represents a single scheduled work interval for a staff member.
type Shift struct {
	ID         int64       `json:"id" db:"id"`
	BusinessID int64       `json:"business_id" db:"business_id"`
	StaffID    int64       `json:"staff_id" db:"staff_id" binding:"required"`
	Date       string      `json:"date" db:"shift_date"`           // YYYY-MM-DD
	StartTime  string      `json:"start_time" db:"start_time"`     // HH:mm
	EndTime    string      `json:"end_time" db:"end_time"`         // HH:mm
	ShiftType  ShiftType   `json:"shift_type" db:"shift_type"`
	Status     ShiftStatus `json:"status" db:"status"`
	LocationID *int64      `json:"location_id,omitempty" db:"location_id"`
	Notes      *string     `json:"notes,omitempty" db:"notes"`
	PatternID  *int64      `json:"pattern_id,omitempty" db:"pattern_id"` // Set when materialized from a recurring pattern
	IsOverride bool        `json:"is_override" db:"is_override"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
	StaffName  string      `json:"staff_name,omitempty"` // Joined from staff member's user
}

// RecurringShiftPattern is a template that generates shifts on a cadence.
// The recurrence rule is a compact string such as "FREQ=DAILY" or
// "FREQ=WEEKLY;BYDAY=MO,WE,FR".
type RecurringShiftPattern struct {
	ID             int64     `json:"id" db:"id"`
	BusinessID     int64     `json:"business_id" db:"business_id"`
	StaffID        int64     `json:"staff_id" db:"staff_id" binding:"required"`
	LocationID     *int64    `json:"location_id,omitempty" db:"location_id"`
	RecurrenceRule string    `json:"recurrence_rule" db:"recurrence_rule" binding:"required"`
	StartTime      string    `json:"start_time" db:"start_time"` // HH:mm
	EndTime        string    `json:"end_time" db:"end_time"`     // HH:mm
	StartDate      string    `json:"start_date" db:"start_date"` // Validity window start, inclusive
	EndDate        *string   `json:"end_date,omitempty" db:"end_date"` // Inclusive; nil means open-ended
	ShiftType      ShiftType `json:"shift_type" db:"shift_type"`
	Notes          *string   `json:"notes,omitempty" db:"notes"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
	StaffName      string    `json:"staff_name,omitempty"`
}

// ShiftOccurrence is a concrete calendar instance of work, either backed by a
// persisted shift (ShiftID set) or generated from a recurring pattern
// (PatternID set). Exactly one of the two is populated; use the constructors.
type ShiftOccurrence struct {
	StaffID    int64     `json:"staff_id"`
	StaffName  string    `json:"staff_name,omitempty"`
	Date       string    `json:"date"`       // YYYY-MM-DD
	StartTime  string    `json:"start_time"` // HH:mm
	EndTime    string    `json:"end_time"`   // HH:mm
	ShiftType  ShiftType `json:"shift_type"`
	LocationID *int64    `json:"location_id,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	ShiftID    *int64    `json:"shift_id,omitempty"`
	PatternID  *int64    `json:"pattern_id,omitempty"`
}

// IsPersisted reports whether the occurrence is backed by a shift row.
func (o ShiftOccurrence) IsPersisted() bool {
	return o.ShiftID != nil
}

// OccurrenceFromShift builds an occurrence backed by a persisted shift.
func OccurrenceFromShift(s Shift) ShiftOccurrence {
	id := s.ID
	return ShiftOccurrence{
		StaffID:    s.StaffID,
		StaffName:  s.StaffName,
		Date:       s.Date,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		ShiftType:  s.ShiftType,
		LocationID: s.LocationID,
		Notes:      s.Notes,
		ShiftID:    &id,
	}
}

// OccurrenceFromPattern builds a virtual occurrence generated by a recurring
// pattern for the given date. No shift row exists for it.
func OccurrenceFromPattern(p RecurringShiftPattern, date string) ShiftOccurrence {
	id := p.ID
	return ShiftOccurrence{
		StaffID:    p.StaffID,
		StaffName:  p.StaffName,
		Date:       date,
		StartTime:  p.StartTime,
		EndTime:    p.EndTime,
		ShiftType:  p.ShiftType,
		LocationID: p.LocationID,
		Notes:      p.Notes,
		PatternID:  &id,
	}
}

// ConflictType classifies a scheduling conflict.
type ConflictType string

const (
	ConflictOverlap  ConflictType = "overlap"
	ConflictLocation ConflictType = "location_conflict"
	ConflictOvertime ConflictType = "overtime"
)

// ConflictSeverity is the tier of a conflict: errors block creation unless
// the shift is edited, warnings are advisory and may be forced through.
type ConflictSeverity string

const (
	SeverityError   ConflictSeverity = "error"
	SeverityWarning ConflictSeverity = "warning"
)

// ShiftConflict is computed on demand by the conflict detector and never stored.
type ShiftConflict struct {
	Type     ConflictType     `json:"type"`
	Message  string           `json:"message"`
	Severity ConflictSeverity `json:"severity"`
}

// HasBlockingConflict reports whether any conflict in the list is error-severity.
func HasBlockingConflict(conflicts []ShiftConflict) bool {
	for _, c := range conflicts {
		if c.Severity == SeverityError {
			return true
		}
	}
	return false
}

// AvailabilitySlotKind tags an availability slot as working time or time off.
type AvailabilitySlotKind string

const (
	SlotKindShift   AvailabilitySlotKind = "shift"
	SlotKindTimeOff AvailabilitySlotKind = "timeoff"
)

// AvailabilitySlot is one entry in a staff member's chronological availability feed.
type AvailabilitySlot struct {
	Date      string               `json:"date"`                 // YYYY-MM-DD
	StartTime *string              `json:"start_time,omitempty"` // HH:mm, nil for all-day slots
	EndTime   *string              `json:"end_time,omitempty"`   // HH:mm, nil for all-day slots
	AllDay    bool                 `json:"all_day"`
	Kind      AvailabilitySlotKind `json:"kind"`
}

// OccurrenceFilters defines the available filters for querying shift occurrences.
type OccurrenceFilters struct {
	BusinessID int64
	StaffID    *int64
	LocationID *int64
	DateFrom   string // YYYY-MM-DD, inclusive
	DateTo     string // YYYY-MM-DD, inclusive
}
