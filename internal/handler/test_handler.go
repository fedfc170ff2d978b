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

type testService interface {
	Create(ctx context.Context, actor access.Principal, req dto.CreateTestRequest) (*models.Test, error)
	Get(ctx context.Context, actor access.Principal, id string) (*models.Test, error)
	List(ctx context.Context, actor access.Principal, query dto.TestQuery) ([]models.Test, error)
	Update(ctx context.Context, actor access.Principal, id string, req dto.UpdateTestRequest) (*models.Test, error)
	Transition(ctx context.Context, actor access.Principal, id string, action workflow.TestAction, expectedVersion *int64) (*models.Test, error)
}

// TestHandler exposes examination paper endpoints.
type TestHandler struct {
	service testService
}

// NewTestHandler builds a new handler.
func NewTestHandler(service testService) *TestHandler {
	return &TestHandler{service: service}
}

// Create godoc
// @Summary Create a draft examination paper
// @Tags Tests
// @Accept json
// @Produce json
// @Param payload body dto.CreateTestRequest true "Test payload"
// @Success 201 {object} response.Envelope
// @Router /tests [post]
func (h *TestHandler) Create(c *gin.Context) {
	var req dto.CreateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid test payload"))
		return
	}
	test, err := h.service.Create(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondVersioned(c, http.StatusCreated, test, test.Version)
}

// List godoc
// @Summary List examination papers
// @Tags Tests
// @Produce json
// @Param subject query string false "Subject"
// @Param grade query string false "Grade"
// @Param state query string false "Workflow states, comma separated"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /tests [get]
func (h *TestHandler) List(c *gin.Context) {
	limit, offset, err := queryPage(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	query := dto.TestQuery{Subject: c.Query("subject"), Grade: c.Query("grade"), Limit: limit, Offset: offset}
	for _, state := range queryList(c, "state") {
		query.States = append(query.States, models.TestState(state))
	}
	tests, err := h.service.List(c.Request.Context(), principalFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tests, nil)
}

// Get godoc
// @Summary Get an examination paper
// @Tags Tests
// @Produce json
// @Param id path string true "Test ID"
// @Success 200 {object} response.Envelope
// @Router /tests/{id} [get]
func (h *TestHandler) Get(c *gin.Context) {
	test, err := h.service.Get(c.Request.Context(), principalFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondVersioned(c, http.StatusOK, test, test.Version)
}

// Update godoc
// @Summary Edit a draft paper
// @Tags Tests
// @Accept json
// @Produce json
// @Param id path string true "Test ID"
// @Param If-Match header string false "Expected version"
// @Param payload body dto.UpdateTestRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /tests/{id} [patch]
func (h *TestHandler) Update(c *gin.Context) {
	var req dto.UpdateTestRequest
	if err := bindVersioned(c, &req, &req.VersionedRequest); err != nil {
		response.Error(c, err)
		return
	}
	test, err := h.service.Update(c.Request.Context(), principalFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondVersioned(c, http.StatusOK, test, test.Version)
}

// Transition returns the handler for one workflow action.
// @Summary Apply a workflow action to a paper
// @Description Actions: submit-review, approve, send-to-committee, lock, confidential, printing-ready, complete, reveal.
// @Tags Tests
// @Accept json
// @Produce json
// @Param id path string true "Test ID"
// @Param If-Match header string false "Expected version"
// @Param payload body dto.TransitionRequest false "Expected version"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /tests/{id}/lock [post]
func (h *TestHandler) Transition(action workflow.TestAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.TransitionRequest
		if err := bindVersioned(c, &req, &req.VersionedRequest); err != nil {
			response.Error(c, err)
			return
		}
		test, err := h.service.Transition(c.Request.Context(), principalFromContext(c), c.Param("id"), action, req.Version)
		if err != nil {
			response.Error(c, err)
			return
		}
		respondVersioned(c, http.StatusOK, test, test.Version)
	}
}

// TestRoutes maps URL segments to workflow actions.
var TestRoutes = map[string]workflow.TestAction{
	"submit-review":     workflow.TestSubmitReview,
	"approve":           workflow.TestApprove,
	"send-to-committee": workflow.TestSendToCommittee,
	"lock":              workflow.TestLock,
	"confidential":      workflow.TestMarkConfidential,
	"printing-ready":    workflow.TestMarkPrintingReady,
	"complete":          workflow.TestComplete,
	"reveal":            workflow.TestReveal,
}
