package models

import (
	"time"

	"sakaylink/internal/domain"
)

// UserLocation is the unit of presence state: one row per (uid, role) holding
// the last written position and the role's discoverability flag. Drivers use
// IsAvailable, passengers use IsVisible; the other column stays at its zero
// value by convention. Rows are never deleted implicitly - going offline only
// clears the flag. A flag toggled before any position write merge-creates the
// row with HasPosition false; such rows never surface in peer snapshots.
//
// Using separate lat/lng decimal columns for portability and Haversine queries.
type UserLocation struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	UID         string    `gorm:"size:64;not null;uniqueIndex:idx_location_uid_role" json:"uid"`
	Role        string    `gorm:"size:16;not null;uniqueIndex:idx_location_uid_role;index" json:"role"`
	Latitude    float64   `gorm:"type:decimal(10,8);not null" json:"latitude"`
	Longitude   float64   `gorm:"type:decimal(11,8);not null" json:"longitude"`
	HasPosition bool      `gorm:"default:false" json:"-"`
	IsAvailable bool      `gorm:"default:false;index" json:"is_available"`
	IsVisible   bool      `gorm:"default:false;index" json:"is_visible"`
	UpdatedAt   time.Time `gorm:"not null;index" json:"updated_at"`
	CreatedAt   time.Time `json:"-"`
}

func (UserLocation) TableName() string {
	return "user_locations"
}

// Discoverable returns the role's flag value.
func (l *UserLocation) Discoverable() bool {
	if l.Role == domain.RoleDriver {
		return l.IsAvailable
	}
	return l.IsVisible
}
