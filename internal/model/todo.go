package model

import (
	"time"

	"github.com/google/uuid"
)

type Todo struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string    `gorm:"not null"`
	Description string
	IsCompleted bool       `gorm:"not null;default:false"`
	Priority    string     `gorm:"not null;default:'MEDIUM';check:priority IN ('LOW', 'MEDIUM', 'HIGH')"`
	DueDate     *time.Time
	HasReminder bool       `gorm:"not null;default:false"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index"`
	// ParentID is reserved for task nesting; no operation reads or writes it yet.
	ParentID  *uuid.UUID `gorm:"type:uuid"`
	Progress  int        `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User     User      `gorm:"foreignKey:UserID"`
	Category *Category `gorm:"foreignKey:CategoryID"`
	Subtasks []SubTask `gorm:"foreignKey:TodoID"`
}

// Todo priorities
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)
