package models

import (
	"time"

	"github.com/google/uuid"
)

// Child belongs to exactly one account. ProgramEnrollmentID points at the
// enrollment that was active when the child was registered, when any.
type Child struct {
	ID                  uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID              uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	Name                string     `gorm:"column:name;not null"`
	ProgramEnrollmentID *uuid.UUID `gorm:"column:program_enrollment_id;type:uuid"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	ClassEnrollments []ClassEnrollment `gorm:"foreignKey:ChildID"`
}
