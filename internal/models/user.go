package models

import (
	"time"
)

// User is an account row in the auth backend. Social logins create rows
// with a random throwaway password.
type User struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Email             string `gorm:"size:255;not null;uniqueIndex"`
	HashedPassword    string `gorm:"size:255"`
	FullName          string `gorm:"size:255"`
	IsVerified        bool   `gorm:"not null;default:false"`
	VerificationToken string `gorm:"size:64;index"`
	ResetToken        string `gorm:"size:64;index"`
	ResetTokenExpires *time.Time
}
