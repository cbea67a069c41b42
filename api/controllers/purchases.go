package controllers

import (
	"net/http"

	"github.com/jsa498/devflow/api/responses"
	"github.com/jsa498/devflow/api/validators"
	"github.com/jsa498/devflow/internal/purchases"
	"github.com/jsa498/devflow/pkg/logger"
	"github.com/jsa498/devflow/pkg/types"
)

type verifyPurchaseRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// VerifyPurchase reconciles a checkout session after the client-side
// redirect. The webhook drives the same service, so a duplicate call here
// reports success with an "already verified" message.
func VerifyPurchase(service *purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyPurchaseRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := service.Verify(r.Context(), req.SessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.VerifyPayload{Success: true, Message: result.Message})
	}
}
