package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jsa498/devflow/api/responses"
	"github.com/jsa498/devflow/internal/courses"
	pkgerrors "github.com/jsa498/devflow/pkg/errors"
	"github.com/jsa498/devflow/pkg/logger"
)

// ListCourses returns the published catalog.
func ListCourses(repo courses.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		catalog, err := repo.ListPublished(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list courses"))
			return
		}
		responses.WriteSuccess(w, catalog)
	}
}

// GetCourseBySlug returns one published course.
func GetCourseBySlug(repo courses.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "course slug is required"))
			return
		}

		course, err := repo.FindBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up course"))
			return
		}
		if course == nil || !course.Published {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "course not found"))
			return
		}
		responses.WriteSuccess(w, course)
	}
}
