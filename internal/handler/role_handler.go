package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/its-api/internal/models"
	appErrors "github.com/campushq/its-api/pkg/errors"
	"github.com/campushq/its-api/pkg/response"
)

type roleTransitioner interface {
	Promote(ctx context.Context, ids []int64) (*models.TransitionResult, error)
	Demote(ctx context.Context, ids []int64) (*models.TransitionResult, error)
}

// RoleHandler exposes the bulk promote/demote endpoints.
type RoleHandler struct {
	service roleTransitioner
}

// NewRoleHandler builds a new handler.
func NewRoleHandler(svc roleTransitioner) *RoleHandler {
	return &RoleHandler{service: svc}
}

// Promote godoc
// @Summary Promote students to tutors
// @Description Bulk transition; ids that do not name a student are reported in the warning
// @Tags Roles
// @Accept json
// @Produce json
// @Param payload body map[string][]int true "student_ids"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/promote [post]
func (h *RoleHandler) Promote(c *gin.Context) {
	var payload struct {
		StudentIDs *[]int64 `json:"student_ids"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.StudentIDs == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student_ids must be provided"))
		return
	}

	result, err := h.service.Promote(c.Request.Context(), *payload.StudentIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	res := models.TransitionResponse{Message: "Successfully promoted students to tutors"}
	if len(result.Rejected) > 0 {
		res.Warning = &models.TransitionWarning{
			Message: "These users were not promoted as they do not exist or are not students",
			IDs:     result.Rejected,
		}
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Demote godoc
// @Summary Demote tutors to students
// @Description Bulk transition; ids that do not name a tutor are reported in the warning
// @Tags Roles
// @Accept json
// @Produce json
// @Param payload body map[string][]int true "tutor_ids"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /tutors/demote [post]
func (h *RoleHandler) Demote(c *gin.Context) {
	var payload struct {
		TutorIDs *[]int64 `json:"tutor_ids"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.TutorIDs == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "tutor_ids must be provided"))
		return
	}

	result, err := h.service.Demote(c.Request.Context(), *payload.TutorIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	res := models.TransitionResponse{Message: "Successfully demoted tutors to students"}
	if len(result.Rejected) > 0 {
		res.Warning = &models.TransitionWarning{
			Message: "These users were not demoted as they do not exist or are not tutors",
			IDs:     result.Rejected,
		}
	}

	response.JSON(c, http.StatusOK, res, nil)
}
