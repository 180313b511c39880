package models

import "time"

// Driver is a person who can be dispatched on freight jobs. The store assigns
// the integer id on creation.
type Driver struct {
	ID            int        `db:"id"              json:"id"`
	FirstName     string     `db:"first_name"      json:"first_name"`
	LastName      string     `db:"last_name"       json:"last_name"`
	Email         string     `db:"email"           json:"email"`
	PhoneNumber   string     `db:"phone_number"    json:"phone_number"`
	LicenseNumber string     `db:"license_number"  json:"license_number"`
	LicenseExpiry time.Time  `db:"license_expiry"  json:"license_expiry"`
	IsActive      bool       `db:"is_active"       json:"is_active"`
	CreatedAt     time.Time  `db:"created_at"      json:"created_at"`
	UpdatedAt     *time.Time `db:"updated_at"      json:"updated_at,omitempty"`
}
