package models

import "time"

// StaffMember represents an employee of a business
type StaffMember struct {
	ID          int64           `json:"id" db:"id"`
	BusinessID  int64           `json:"business_id" db:"business_id"`
	UserID      *int64          `json:"user_id,omitempty" db:"user_id"` // Link to users table for login
	PhoneNumber *string         `json:"phone_number,omitempty" db:"phone_number"`
	HireDate    *string         `json:"hire_date,omitempty" db:"hire_date"` // Store as string, parse to time.Time when needed
	Position    *string         `json:"position,omitempty" db:"position"`
	IsActive    bool            `json:"is_active" db:"is_active"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
	User        *User           `json:"user,omitempty"`      // For joining with User details (full_name, email)
	Locations   []StaffLocation `json:"locations,omitempty"` // For joining with assigned locations
}
