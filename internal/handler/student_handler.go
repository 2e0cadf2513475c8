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

type studentRoster interface {
	ListStudents(ctx context.Context) ([]models.User, error)
	StudentsByIDs(ctx context.Context, ids []int64) ([]models.User, error)
	StudentsByTutor(ctx context.Context, tutorID int64, invert bool) ([]models.User, error)
}

// StudentHandler exposes the student query surface.
type StudentHandler struct {
	roster studentRoster
}

// NewStudentHandler builds a new handler.
func NewStudentHandler(roster studentRoster) *StudentHandler {
	return &StudentHandler{roster: roster}
}

// List godoc
// @Summary List students
// @Description List all students, or filter by ids or by tutor. Filters are evaluated in order: student_ids, then tutor_id.
// @Tags Students
// @Produce json
// @Param student_ids query []string false "Student ids, repeated or comma-joined"
// @Param tutor_id query string false "Tutor id"
// @Param invert query bool false "Return students NOT taught by the tutor"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	query := c.Request.URL.Query()

	if len(query) == 0 {
		students, err := h.roster.ListStudents(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, students, nil)
		return
	}

	if values := query["student_ids"]; len(values) > 0 {
		ids, err := parseIDList(values)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student ID must be an integer"))
			return
		}
		students, err := h.roster.StudentsByIDs(c.Request.Context(), ids)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, students, nil)
		return
	}

	if value := c.Query("tutor_id"); value != "" {
		tutorID, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "tutor ID must be an integer"))
			return
		}
		invert, _ := strconv.ParseBool(c.Query("invert"))
		students, err := h.roster.StudentsByTutor(c.Request.Context(), tutorID, invert)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, students, nil)
		return
	}

	response.Error(c, appErrors.Clone(appErrors.ErrValidation, "no student or tutor ids provided"))
}
