package models

import (
	"time"

	"coinbuddy/internal/uuid"

	"gorm.io/gorm"
)

// Base contains the common columns shared by every CoinBuddy table. Primary
// keys are UUIDv7 strings so records sort by creation time and backup
// artifacts can carry their ids across a restore.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate mints a key for new records. Ids supplied by a restore are
// kept as-is.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
