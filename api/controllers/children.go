package controllers

import (
	"net/http"
	"time"

	"github.com/jsa498/devflow/api/responses"
	"github.com/jsa498/devflow/api/validators"
	"github.com/jsa498/devflow/internal/children"
	"github.com/jsa498/devflow/pkg/enums"
	pkgerrors "github.com/jsa498/devflow/pkg/errors"
	"github.com/jsa498/devflow/pkg/logger"
)

type classSelectionRequest struct {
	Category string `json:"category" validate:"required"`
	Level    string `json:"level" validate:"required"`
	TimeSlot string `json:"time_slot" validate:"required"`
}

type childRegistrationRequest struct {
	Name    string                  `json:"name" validate:"required,max=120"`
	Classes []classSelectionRequest `json:"classes" validate:"omitempty,max=10,dive"`
}

type registerChildrenRequest struct {
	Children []childRegistrationRequest `json:"children" validate:"required,min=1,max=10,dive"`
}

// RegisterChildren records the family's children and class selections under
// their active program enrollment.
func RegisterChildren(service *children.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req registerChildrenRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		registrations := make([]children.ChildRegistration, 0, len(req.Children))
		for _, child := range req.Children {
			classes := make([]children.ClassSelection, 0, len(child.Classes))
			for _, class := range child.Classes {
				category, err := enums.ParseClassCategory(class.Category)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid class category"))
					return
				}
				slot, err := enums.ParseTimeSlot(class.TimeSlot)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid time slot"))
					return
				}
				classes = append(classes, children.ClassSelection{
					Category: category,
					Level:    class.Level,
					TimeSlot: slot,
				})
			}
			registrations = append(registrations, children.ChildRegistration{
				Name:    child.Name,
				Classes: classes,
			})
		}

		created, err := service.Register(r.Context(), userID, registrations)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// UpcomingClasses projects the next occurrence of each child's classes for
// the dashboard, sorted ascending.
func UpcomingClasses(service *children.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		upcoming, err := service.UpcomingClasses(r.Context(), userID, time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, upcoming)
	}
}
