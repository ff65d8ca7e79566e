package models

import "time"

// TimeOffStatus defines the type for time-off request statuses
type TimeOffStatus string

const (
	TimeOffStatusPending   TimeOffStatus = "pending"
	TimeOffStatusApproved  TimeOffStatus = "approved"
	TimeOffStatusDenied    TimeOffStatus = "denied"
	TimeOffStatusCancelled TimeOffStatus = "cancelled"
)

// IsValidTimeOffStatus checks if the provided status string is a valid TimeOffStatus.
func IsValidTimeOffStatus(status string) bool {
	switch TimeOffStatus(status) {
	case TimeOffStatusPending, TimeOffStatusApproved, TimeOffStatusDenied, TimeOffStatusCancelled:
		return true
	default:
		return false
	}
}

// TimeOffRequest represents a staff member's request for time away from work.
// Only approved requests participate in availability aggregation.
type TimeOffRequest struct {
	ID         int64         `json:"id" db:"id"`
	BusinessID int64         `json:"business_id" db:"business_id"`
	StaffID    int64         `json:"staff_id" db:"staff_id" binding:"required"`
	StartDate  string        `json:"start_date" db:"start_date"` // YYYY-MM-DD, inclusive
	EndDate    string        `json:"end_date" db:"end_date"`     // YYYY-MM-DD, inclusive
	AllDay     bool          `json:"all_day" db:"all_day"`
	StartTime  *string       `json:"start_time,omitempty" db:"start_time"` // HH:mm, partial-day requests only
	EndTime    *string       `json:"end_time,omitempty" db:"end_time"`     // HH:mm
	Status     TimeOffStatus `json:"status" db:"status"`
	Reason     *string       `json:"reason,omitempty" db:"reason"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"`
	StaffName  string        `json:"staff_name,omitempty"`
}
