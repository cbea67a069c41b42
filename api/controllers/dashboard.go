package controllers

import (
	"net/http"

	"github.com/jsa498/devflow/api/responses"
	"github.com/jsa498/devflow/internal/courses"
	"github.com/jsa498/devflow/internal/programs"
	"github.com/jsa498/devflow/pkg/db/models"
	pkgerrors "github.com/jsa498/devflow/pkg/errors"
	"github.com/jsa498/devflow/pkg/logger"
)

type dashboardEnrollmentsResponse struct {
	Courses []models.CourseEnrollment `json:"courses"`
	Program *models.ProgramEnrollment `json:"program,omitempty"`
}

// DashboardEnrollments returns the caller's owned courses and active
// program enrollment, if any.
func DashboardEnrollments(courseRepo courses.Repository, programRepo programs.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		owned, err := courseRepo.ListEnrollmentsByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list course enrollments"))
			return
		}

		program, err := programRepo.FindActiveByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up program enrollment"))
			return
		}

		responses.WriteSuccess(w, dashboardEnrollmentsResponse{
			Courses: owned,
			Program: program,
		})
	}
}
