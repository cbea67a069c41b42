package controllers

import (
	"net/http"

	"github.com/jsa498/devflow/api/responses"
	"github.com/jsa498/devflow/api/validators"
	"github.com/jsa498/devflow/internal/checkout"
	"github.com/jsa498/devflow/pkg/logger"
)

type checkoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type courseCheckoutRequest struct {
	CourseID string `json:"course_id" validate:"required,uuid"`
}

// CreateCourseCheckout opens a hosted checkout for one course.
func CreateCourseCheckout(service *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req courseCheckoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		courseID, err := validators.ParseUUIDString(req.CourseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := service.CreateCourseSession(r.Context(), userID, courseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, checkoutSessionResponse{SessionID: session.ID, URL: session.URL})
	}
}

// CreateCartCheckout opens a hosted checkout covering the caller's cart.
func CreateCartCheckout(service *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := service.CreateCartSession(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, checkoutSessionResponse{SessionID: session.ID, URL: session.URL})
	}
}
