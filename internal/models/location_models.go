package models

import "time"

// Location represents one physical site of a business (e.g., a salon branch).
// The scheduling engine only ever carries location IDs; names are joined in
// by the location layer when a response needs them.
type Location struct {
	ID          int64     `json:"id" db:"id"`
	BusinessID  int64     `json:"business_id" db:"business_id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Address     *string   `json:"address,omitempty" db:"address"`
	PhoneNumber *string   `json:"phone_number,omitempty" db:"phone_number"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// StaffLocation links a staff member to a location they can work at.
// Exactly one link per staff member carries IsPrimary=true; the flag is
// flipped inside a single transaction when the primary location changes.
type StaffLocation struct {
	StaffID    int64     `json:"staff_id" db:"staff_id"`
	LocationID int64     `json:"location_id" db:"location_id"`
	IsPrimary  bool      `json:"is_primary" db:"is_primary"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	Location   *Location `json:"location,omitempty"` // For joining with Location details
}
