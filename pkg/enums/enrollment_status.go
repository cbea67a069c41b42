package enums

import "fmt"

// EnrollmentStatus is the lifecycle of a program enrollment. Rows are created
// pending_payment at checkout initiation and flip to active exactly once,
// from whichever verification path observes completion first.
type EnrollmentStatus string

const (
	EnrollmentStatusPendingPayment EnrollmentStatus = "pending_payment"
	EnrollmentStatusActive         EnrollmentStatus = "active"
	EnrollmentStatusCreationFailed EnrollmentStatus = "creation_failed"
	EnrollmentStatusCanceled       EnrollmentStatus = "canceled"
)

var validEnrollmentStatuses = []EnrollmentStatus{
	EnrollmentStatusPendingPayment,
	EnrollmentStatusActive,
	EnrollmentStatusCreationFailed,
	EnrollmentStatusCanceled,
}

// String implements fmt.Stringer.
func (s EnrollmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s EnrollmentStatus) IsValid() bool {
	for _, candidate := range validEnrollmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseEnrollmentStatus converts raw input into an EnrollmentStatus.
func ParseEnrollmentStatus(value string) (EnrollmentStatus, error) {
	for _, candidate := range validEnrollmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid enrollment status %q", value)
}
