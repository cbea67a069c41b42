package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CourseEnrollment records ownership of a purchased course. The unique index
// on (user_id, course_id) is the idempotence guard for duplicate
// verification attempts: a second insert for the same purchase is treated as
// already satisfied, never as an error.
type CourseEnrollment struct {
	ID                      uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID                  uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:course_enrollments_user_course_key"`
	CourseID                uuid.UUID        `gorm:"column:course_id;type:uuid;not null;uniqueIndex:course_enrollments_user_course_key"`
	StripeCheckoutSessionID string           `gorm:"column:stripe_checkout_session_id;not null;index"`
	PricePaid               *decimal.Decimal `gorm:"column:price_paid;type:numeric(10,2)"`
	CreatedAt               time.Time        `gorm:"column:created_at;autoCreateTime"`
}
