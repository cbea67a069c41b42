package children

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jsa498/devflow/internal/schedule"
	"github.com/jsa498/devflow/pkg/db/models"
	"github.com/jsa498/devflow/pkg/enums"
	pkgerrors "github.com/jsa498/devflow/pkg/errors"
	"github.com/jsa498/devflow/pkg/logger"
)

type programLookup interface {
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.ProgramEnrollment, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ClassSelection is one class a child attends.
type ClassSelection struct {
	Category enums.ClassCategory
	Level    string
	TimeSlot enums.TimeSlot
}

// ChildRegistration is one child plus their selected classes.
type ChildRegistration struct {
	Name    string
	Classes []ClassSelection
}

// ServiceParams configures the children service.
type ServiceParams struct {
	Repo              Repository
	Programs          programLookup
	TransactionRunner txRunner
	Projector         *schedule.Projector
	Logger            *logger.Logger
}

// Service registers children under an active program enrollment and
// projects their upcoming classes for the dashboard.
type Service struct {
	repo      Repository
	programs  programLookup
	txRunner  txRunner
	projector *schedule.Projector
	logg      *logger.Logger
}

// NewService validates dependencies and returns a children service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "children repo required")
	}
	if params.Programs == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "program lookup required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Projector == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "schedule projector required")
	}
	return &Service{
		repo:      params.Repo,
		programs:  params.Programs,
		txRunner:  params.TransactionRunner,
		projector: params.Projector,
		logg:      params.Logger,
	}, nil
}

// Register writes the family's children and their class selections in one
// transaction, tagged with the user's active program enrollment. Requires an
// active enrollment; registration before payment is rejected.
func (s *Service) Register(ctx context.Context, userID uuid.UUID, registrations []ChildRegistration) ([]models.Child, error) {
	if len(registrations) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one child is required")
	}
	for _, reg := range registrations {
		if reg.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "child name is required")
		}
		for _, class := range reg.Classes {
			if !class.Category.IsValid() {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid class category")
			}
			if _, ok := schedule.SlotDetailFor(class.TimeSlot); !ok {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid time slot")
			}
		}
	}

	program, err := s.programs.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up active program enrollment")
	}
	if program == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no active program enrollment")
	}

	var created []models.Child
	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, reg := range registrations {
			child := &models.Child{
				UserID:              userID,
				Name:                reg.Name,
				ProgramEnrollmentID: &program.ID,
			}
			if err := repo.Create(ctx, child); err != nil {
				return err
			}

			enrollments := make([]models.ClassEnrollment, 0, len(reg.Classes))
			for _, class := range reg.Classes {
				enrollments = append(enrollments, models.ClassEnrollment{
					ChildID:  child.ID,
					Category: class.Category,
					Level:    class.Level,
					TimeSlot: class.TimeSlot,
				})
			}
			if err := repo.CreateClassEnrollments(ctx, enrollments); err != nil {
				return err
			}
			child.ClassEnrollments = enrollments
			created = append(created, *child)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "register children")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "children", len(created)), "children registered")
	}
	return created, nil
}

// UpcomingClasses projects the next occurrence of every class for every one
// of the user's children, sorted ascending.
func (s *Service) UpcomingClasses(ctx context.Context, userID uuid.UUID, ref time.Time) ([]schedule.UpcomingOccurrence, error) {
	kids, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list children")
	}
	return s.projector.ProjectAll(ctx, kids, ref), nil
}
