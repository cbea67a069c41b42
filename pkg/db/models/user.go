package models

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors the hosted auth provider's account record. The provider owns
// credentials and sessions; this table only carries profile fields the
// backend needs for display and ownership checks.
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email     string    `gorm:"column:email;not null;unique"`
	FullName  string    `gorm:"column:full_name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
