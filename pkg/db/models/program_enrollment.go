package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jsa498/devflow/pkg/enums"
)

// ProgramEnrollment tracks one family's subscription to a weekly program.
// The checkout session ID ties the row to the Stripe session that funds it;
// activation is keyed on it so the redirect path and the webhook path
// converge on the same row.
type ProgramEnrollment struct {
	ID                      uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID                  uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	ProgramName             string                 `gorm:"column:program_name;not null"`
	BillingCycle            enums.BillingCycle     `gorm:"column:billing_cycle;not null"`
	SelectedSlot            enums.TimeSlot         `gorm:"column:selected_slot;not null"`
	Status                  enums.EnrollmentStatus `gorm:"column:status;not null;default:'pending_payment'"`
	StripeCheckoutSessionID *string                `gorm:"column:stripe_checkout_session_id;index"`
	StripeSubscriptionID    *string                `gorm:"column:stripe_subscription_id"`
	CreatedAt               time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
