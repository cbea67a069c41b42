package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jsa498/devflow/pkg/enums"
)

// ClassEnrollment places a child in one weekly slot of one class.
type ClassEnrollment struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ChildID   uuid.UUID           `gorm:"column:child_id;type:uuid;not null;index"`
	Category  enums.ClassCategory `gorm:"column:category;not null"`
	Level     string              `gorm:"column:level;not null"`
	TimeSlot  enums.TimeSlot      `gorm:"column:time_slot;not null"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}
