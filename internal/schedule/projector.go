package schedule

import (
	"context"
	"sort"
	"time"

	"github.com/jsa498/devflow/pkg/db/models"
	"github.com/jsa498/devflow/pkg/enums"
	"github.com/jsa498/devflow/pkg/logger"
)

// UpcomingOccurrence is one projected class meeting. It is derived on demand
// and never persisted.
type UpcomingOccurrence struct {
	Date        time.Time      `json:"date"`
	ChildName   string         `json:"child_name"`
	Description string         `json:"description"`
	Slot        enums.TimeSlot `json:"slot"`
}

// Projector computes upcoming class occurrences from weekly slot enrollments.
type Projector struct {
	logg *logger.Logger
}

// NewProjector returns a Projector. The logger is optional.
func NewProjector(logg *logger.Logger) *Projector {
	return &Projector{logg: logg}
}

// NextOccurrence returns the next calendar occurrence of the slot strictly
// after ref. The boundary is exclusive: a reference instant exactly at the
// slot time resolves to next week's occurrence. Returns false for an
// unrecognized slot.
func NextOccurrence(slot enums.TimeSlot, ref time.Time) (time.Time, bool) {
	detail, ok := slotTable[slot]
	if !ok {
		return time.Time{}, false
	}

	// Move to the slot's day within the same Sunday-started week, then set
	// the wall-clock time.
	year, month, day := ref.Date()
	dayShift := int(detail.Day) - int(ref.Weekday())
	candidate := time.Date(year, month, day+dayShift, detail.Hour, detail.Minute, 0, 0, ref.Location())

	if !candidate.After(ref) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate, true
}

// ProjectAll computes the next occurrence for every class enrollment of every
// child and returns the combined list sorted ascending by date. Children with
// no enrollments contribute nothing; entries are not deduplicated.
func (p *Projector) ProjectAll(ctx context.Context, children []models.Child, ref time.Time) []UpcomingOccurrence {
	occurrences := []UpcomingOccurrence{}

	for _, child := range children {
		for _, enrollment := range child.ClassEnrollments {
			next, ok := NextOccurrence(enrollment.TimeSlot, ref)
			if !ok {
				if p.logg != nil {
					dataCtx := p.logg.WithField(ctx, "time_slot", enrollment.TimeSlot.String())
					p.logg.Warn(dataCtx, "unknown time slot on class enrollment")
				}
				continue
			}
			detail := slotTable[enrollment.TimeSlot]
			occurrences = append(occurrences, UpcomingOccurrence{
				Date:        next,
				ChildName:   child.Name,
				Description: detail.Description,
				Slot:        enrollment.TimeSlot,
			})
		}
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].Date.Before(occurrences[j].Date)
	})
	return occurrences
}
