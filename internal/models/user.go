package models

import "time"

// User represents an API operator account.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"size:100;not null"`
	Email        string    `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:200;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
