package controllers

import (
	"net/http"

	"github.com/jsa498/devflow/api/middleware"
	"github.com/jsa498/devflow/api/responses"
	"github.com/jsa498/devflow/api/validators"
	"github.com/jsa498/devflow/internal/programs"
	"github.com/jsa498/devflow/pkg/enums"
	pkgerrors "github.com/jsa498/devflow/pkg/errors"
	"github.com/jsa498/devflow/pkg/logger"
)

type programCheckoutRequest struct {
	ProgramName         string `json:"program_name" validate:"required"`
	BillingCycle        string `json:"billing_cycle" validate:"required"`
	SelectedSlot        string `json:"selected_slot" validate:"required"`
	ChildCount          int    `json:"child_count" validate:"required,min=1,max=10"`
	ClassCountsPerChild []int  `json:"class_counts_per_child" validate:"omitempty,max=10"`
}

// CreateProgramCheckout records a pending program enrollment and opens the
// subscription checkout for it.
func CreateProgramCheckout(service *programs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req programCheckoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cycle, err := enums.ParseBillingCycle(req.BillingCycle)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid billing cycle"))
			return
		}
		slot, err := enums.ParseTimeSlot(req.SelectedSlot)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid time slot"))
			return
		}

		session, err := service.StartCheckout(r.Context(), programs.EnrollInput{
			UserID:              userID,
			ProgramName:         req.ProgramName,
			BillingCycle:        cycle,
			SelectedSlot:        slot,
			ChildCount:          req.ChildCount,
			ClassCountsPerChild: req.ClassCountsPerChild,
			CustomerEmail:       middleware.UserEmailFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, checkoutSessionResponse{SessionID: session.ID, URL: session.URL})
	}
}
