package controllers

import (
	"net/http"

	"github.com/jsa498/devflow/api/responses"
	"github.com/jsa498/devflow/api/validators"
	"github.com/jsa498/devflow/internal/cart"
	"github.com/jsa498/devflow/pkg/db"
	"github.com/jsa498/devflow/pkg/db/models"
	pkgerrors "github.com/jsa498/devflow/pkg/errors"
	"github.com/jsa498/devflow/pkg/logger"
)

const cartItemUniqueConstraint = "cart_items_user_course_key"

type addCartItemRequest struct {
	CourseID string `json:"course_id" validate:"required,uuid"`
}

// ListCart returns the caller's pending cart items with course details.
func ListCart(repo cart.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := repo.ListByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart"))
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// AddCartItem puts a course in the caller's cart. Adding a course twice is a
// conflict, not a quantity bump.
func AddCartItem(repo cart.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req addCartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		courseID, err := validators.ParseUUIDString(req.CourseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item := &models.CartItem{UserID: userID, CourseID: courseID}
		if err := repo.Add(r.Context(), item); err != nil {
			if db.IsUniqueViolation(err, cartItemUniqueConstraint) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeConflict, "course already in cart"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart item"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// RemoveCartItem drops one course from the caller's cart.
func RemoveCartItem(repo cart.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		courseID, err := validators.ParseUUIDParam(r, "courseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := repo.Remove(r.Context(), userID, courseID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item"))
			return
		}
		responses.WriteSuccess(w, nil)
	}
}
