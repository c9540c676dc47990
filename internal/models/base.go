// Package models contains the database models for the application.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Base contains common fields shared by all models.
type Base struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
