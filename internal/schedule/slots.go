package schedule

import (
	"time"

	"github.com/jsa498/devflow/pkg/enums"
)

// SlotDetail fixes a weekly slot to a day-of-week and wall-clock time.
type SlotDetail struct {
	Day         time.Weekday
	Hour        int
	Minute      int
	Description string
}

// slotTable is the closed mapping from slot identifiers to their weekly
// schedule. Week starts Sunday.
var slotTable = map[enums.TimeSlot]SlotDetail{
	// Punjabi
	enums.TimeSlotSundayBeginner: {Day: time.Sunday, Hour: 10, Minute: 0, Description: "Punjabi/Gurmukhi (Beginner)"},
	enums.TimeSlotSundayAdvanced: {Day: time.Sunday, Hour: 11, Minute: 30, Description: "Punjabi/Gurmukhi (Mid/Advanced)"},
	// Math
	enums.TimeSlotSaturdayMathGrade1to5:  {Day: time.Saturday, Hour: 11, Minute: 0, Description: "Math (Grade 1-5)"},
	enums.TimeSlotSaturdayMathGrade6to8:  {Day: time.Saturday, Hour: 12, Minute: 30, Description: "Math (Grade 6-8)"},
	enums.TimeSlotSaturdayMathGrade9Plus: {Day: time.Saturday, Hour: 14, Minute: 0, Description: "Math (Grade 9+)"},
	// Coding
	enums.TimeSlotSaturdayCodingBeginner: {Day: time.Saturday, Hour: 16, Minute: 0, Description: "Coding (Beginner)"},
	enums.TimeSlotSaturdayCodingAdvanced: {Day: time.Saturday, Hour: 18, Minute: 0, Description: "Coding (Mid/Advanced)"},
}

// SlotDetailFor resolves a slot identifier against the closed table.
func SlotDetailFor(slot enums.TimeSlot) (SlotDetail, bool) {
	detail, ok := slotTable[slot]
	return detail, ok
}
