package enums

import "fmt"

// TimeSlot identifies a recurring weekly class slot. Each value maps to a
// fixed day-of-week and time-of-day; the schedule package owns that table.
type TimeSlot string

const (
	TimeSlotSundayBeginner         TimeSlot = "sunday_beginner"
	TimeSlotSundayAdvanced         TimeSlot = "sunday_advanced"
	TimeSlotSaturdayMathGrade1to5  TimeSlot = "saturday_math_grade1_5"
	TimeSlotSaturdayMathGrade6to8  TimeSlot = "saturday_math_grade6_8"
	TimeSlotSaturdayMathGrade9Plus TimeSlot = "saturday_math_grade9_plus"
	TimeSlotSaturdayCodingBeginner TimeSlot = "saturday_coding_beginner"
	TimeSlotSaturdayCodingAdvanced TimeSlot = "saturday_coding_advanced"
)

var validTimeSlots = []TimeSlot{
	TimeSlotSundayBeginner,
	TimeSlotSundayAdvanced,
	TimeSlotSaturdayMathGrade1to5,
	TimeSlotSaturdayMathGrade6to8,
	TimeSlotSaturdayMathGrade9Plus,
	TimeSlotSaturdayCodingBeginner,
	TimeSlotSaturdayCodingAdvanced,
}

// String implements fmt.Stringer.
func (s TimeSlot) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s TimeSlot) IsValid() bool {
	for _, candidate := range validTimeSlots {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTimeSlot converts raw input into a TimeSlot.
func ParseTimeSlot(value string) (TimeSlot, error) {
	for _, candidate := range validTimeSlots {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid time slot %q", value)
}
