package model

import (
	"time"

	"github.com/google/uuid"
)

type SubTask struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string    `gorm:"not null"`
	IsCompleted bool      `gorm:"not null;default:false"`
	TodoID      uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Todo Todo `gorm:"foreignKey:TodoID"`
}
