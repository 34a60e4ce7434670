package models

import "time"

type VehicleInfo struct {
	Make        string `gorm:"size:64" json:"make"`
	Model       string `gorm:"size:64" json:"model"`
	Color       string `gorm:"size:32" json:"color"`
	PlateNumber string `gorm:"size:16" json:"plate_number"`
	Year        int    `json:"year"`
}

type DriverCredentials struct {
	LicenseNumber      string     `gorm:"size:64" json:"license_number"`
	LicenseExpiry      *time.Time `json:"license_expiry"`
	DriverLicenseURL   string     `gorm:"size:512" json:"-"`
	BackgroundCheckURL string     `gorm:"size:512" json:"-"`
}

// DriverProfile carries the role-specific record shown on marker tap:
// vehicle details, credential documents and the verification flag.
type DriverProfile struct {
	UID         string            `gorm:"primaryKey;size:64" json:"uid"`
	Vehicle     VehicleInfo       `gorm:"embedded;embeddedPrefix:vehicle_" json:"vehicle_info"`
	Credentials DriverCredentials `gorm:"embedded;embeddedPrefix:credential_" json:"credentials"`
	IsVerified  bool              `gorm:"default:false" json:"is_verified"`
	VerifiedAt  *time.Time        `json:"verified_at"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"-"`

	User User `gorm:"foreignKey:UID;references:UID" json:"-"`
}

func (DriverProfile) TableName() string {
	return "driver_profiles"
}
