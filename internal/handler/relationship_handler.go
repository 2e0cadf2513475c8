package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/its-api/internal/models"
	appErrors "github.com/campushq/its-api/pkg/errors"
	"github.com/campushq/its-api/pkg/response"
)

type relationshipService interface {
	AddRelationships(ctx context.Context, reqs []models.TeachesRequest) (*models.RelationshipReport, error)
}

// RelationshipHandler exposes the tutor-student linking endpoint.
type RelationshipHandler struct {
	service relationshipService
}

// NewRelationshipHandler builds a new handler.
func NewRelationshipHandler(svc relationshipService) *RelationshipHandler {
	return &RelationshipHandler{service: svc}
}

// teachesPayload is one item of the linking request. Pointer fields separate
// absent keys from zero values so malformed items can be rejected up front.
type teachesPayload struct {
	TutorID    *int64   `json:"tutor_id"`
	StudentIDs *[]int64 `json:"student_ids"`
}

// Add godoc
// @Summary Link tutors to students
// @Description Accepts a single {tutor_id, student_ids} object or an array of them. Tutors always link on their own behalf: any supplied tutor_id is overridden with the caller's id.
// @Tags Relationships
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /relationships [post]
func (h *RelationshipHandler) Add(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Payload in wrong format"))
		return
	}

	var items []teachesPayload
	if err := json.Unmarshal(body, &items); err != nil {
		var single teachesPayload
		if err := json.Unmarshal(body, &single); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Payload in wrong format"))
			return
		}
		items = []teachesPayload{single}
	}

	reqs := make([]models.TeachesRequest, 0, len(items))
	for _, item := range items {
		if claims.IsTutor {
			id := claims.UserID
			item.TutorID = &id
		}
		if item.TutorID == nil || item.StudentIDs == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Payload in wrong format"))
			return
		}
		reqs = append(reqs, models.TeachesRequest{
			TutorID:    *item.TutorID,
			StudentIDs: *item.StudentIDs,
		})
	}

	report, err := h.service.AddRelationships(c.Request.Context(), reqs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, report, nil)
}
