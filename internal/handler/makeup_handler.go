package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-exam-workflow-api/internal/access"
	"github.com/noah-isme/sma-exam-workflow-api/internal/dto"
	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	"github.com/noah-isme/sma-exam-workflow-api/internal/workflow"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/response"
)

type makeupService interface {
	Schedule(ctx context.Context, actor access.Principal, req dto.ScheduleMakeupRequest) (*models.MakeupTest, error)
	ListByTest(ctx context.Context, actor access.Principal, testID string) ([]models.MakeupTest, error)
	Transition(ctx context.Context, actor access.Principal, id string, action workflow.MakeupAction, expectedVersion *int64) (*models.MakeupTest, error)
}

// MakeupHandler exposes makeup sitting endpoints.
type MakeupHandler struct {
	service makeupService
}

// NewMakeupHandler builds a new handler.
func NewMakeupHandler(service makeupService) *MakeupHandler {
	return &MakeupHandler{service: service}
}

// Schedule godoc
// @Summary Schedule a makeup sitting
// @Tags Makeup Tests
// @Accept json
// @Produce json
// @Param payload body dto.ScheduleMakeupRequest true "Makeup payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /makeup-tests [post]
func (h *MakeupHandler) Schedule(c *gin.Context) {
	var req dto.ScheduleMakeupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid makeup payload"))
		return
	}
	makeup, err := h.service.Schedule(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondVersioned(c, http.StatusCreated, makeup, makeup.Version)
}

// ListByTest godoc
// @Summary List makeup sittings of a paper
// @Tags Makeup Tests
// @Produce json
// @Param id path string true "Test ID"
// @Success 200 {object} response.Envelope
// @Router /tests/{id}/makeup-tests [get]
func (h *MakeupHandler) ListByTest(c *gin.Context) {
	makeups, err := h.service.ListByTest(c.Request.Context(), principalFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, makeups, nil)
}

// Transition returns the handler for start, complete or cancel.
// @Summary Move a makeup sitting forward
// @Tags Makeup Tests
// @Produce json
// @Param id path string true "Makeup test ID"
// @Success 200 {object} response.Envelope
// @Router /makeup-tests/{id}/start [post]
func (h *MakeupHandler) Transition(action workflow.MakeupAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.TransitionRequest
		if err := bindVersioned(c, &req, &req.VersionedRequest); err != nil {
			response.Error(c, err)
			return
		}
		makeup, err := h.service.Transition(c.Request.Context(), principalFromContext(c), c.Param("id"), action, req.Version)
		if err != nil {
			response.Error(c, err)
			return
		}
		respondVersioned(c, http.StatusOK, makeup, makeup.Version)
	}
}
