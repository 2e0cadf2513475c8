package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campushq/its-api/internal/models"
	appErrors "github.com/campushq/its-api/pkg/errors"
	"github.com/campushq/its-api/pkg/response"
)

type tutorRoster interface {
	ListTutors(ctx context.Context) ([]models.User, error)
	TutorsByIDs(ctx context.Context, ids []int64) ([]models.User, error)
	TutorsOfStudent(ctx context.Context, studentID int64) ([]models.User, error)
}

// TutorHandler exposes the tutor query surface.
type TutorHandler struct {
	roster tutorRoster
}

// NewTutorHandler builds a new handler.
func NewTutorHandler(roster tutorRoster) *TutorHandler {
	return &TutorHandler{roster: roster}
}

// List godoc
// @Summary List tutors
// @Description List all tutors, or filter by ids or by student. Filters are evaluated in order: tutor_ids, then student_id.
// @Tags Tutors
// @Produce json
// @Param tutor_ids query []string false "Tutor ids, repeated or comma-joined"
// @Param student_id query string false "Student id"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /tutors [get]
func (h *TutorHandler) List(c *gin.Context) {
	query := c.Request.URL.Query()

	if len(query) == 0 {
		tutors, err := h.roster.ListTutors(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, tutors, nil)
		return
	}

	if values := query["tutor_ids"]; len(values) > 0 {
		ids, err := parseIDList(values)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "tutor ID must be an integer"))
			return
		}
		tutors, err := h.roster.TutorsByIDs(c.Request.Context(), ids)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, tutors, nil)
		return
	}

	if value := c.Query("student_id"); value != "" {
		studentID, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student ID must be an integer"))
			return
		}
		tutors, err := h.roster.TutorsOfStudent(c.Request.Context(), studentID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, tutors, nil)
		return
	}

	response.Error(c, appErrors.Clone(appErrors.ErrValidation, "no student or tutor ids provided"))
}
