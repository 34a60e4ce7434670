package models

import (
	"time"

	"sakaylink/internal/domain"
)

type User struct {
	UID         string    `gorm:"primaryKey;size:64" json:"uid"`
	Name        string    `gorm:"size:120;not null" json:"name"`
	Email       string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Role        string    `gorm:"size:16;not null;index" json:"role"` // driver | passenger
	PhoneNumber string    `gorm:"size:32" json:"phone_number"`
	ProfileURL  string    `gorm:"size:512" json:"profile_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

func (u *User) IsDriver() bool    { return u.Role == domain.RoleDriver }
func (u *User) IsPassenger() bool { return u.Role == domain.RolePassenger }
