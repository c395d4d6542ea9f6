package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string
	Status      string `gorm:"not null;index"` // "TODO", "IN_PROGRESS", "DONE"
	Priority    string `gorm:"not null;index"` // "LOW", "MEDIUM", "HIGH"
	DueDate     *time.Time
	ProjectID   uint `gorm:"not null;index"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
