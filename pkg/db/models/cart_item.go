package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is a pending course selection. Rows are cleared as a side effect
// of a successful cart checkout; clearing an already-empty cart is a no-op.
type CartItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:cart_items_user_course_key"`
	CourseID  uuid.UUID `gorm:"column:course_id;type:uuid;not null;uniqueIndex:cart_items_user_course_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Course *Course `gorm:"foreignKey:CourseID"`
}
