package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-exam-workflow-api/internal/access"
	"github.com/noah-isme/sma-exam-workflow-api/internal/dto"
	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/response"
)

type chapterService interface {
	Create(ctx context.Context, actor access.Principal, req dto.CreateChapterRequest) (*models.Chapter, error)
	Get(ctx context.Context, actor access.Principal, id string) (*models.Chapter, error)
	List(ctx context.Context, actor access.Principal, query dto.ChapterQuery) ([]models.Chapter, error)
	Unlock(ctx context.Context, actor access.Principal, id string, req dto.UnlockChapterRequest) (*models.Chapter, error)
	Lock(ctx context.Context, actor access.Principal, id string, expectedVersion *int64) (*models.Chapter, error)
	Complete(ctx context.Context, actor access.Principal, id string, expectedVersion *int64) (*models.Chapter, error)
	SetDeadline(ctx context.Context, actor access.Principal, id string, req dto.SetDeadlineRequest) (*models.Chapter, error)
	RevealScores(ctx context.Context, actor access.Principal, id string, expectedVersion *int64) (*models.Chapter, error)
	UpdatePortions(ctx context.Context, actor access.Principal, id string, req dto.UpdatePortionsRequest) (*models.Chapter, error)
}

// ChapterHandler exposes syllabus chapter endpoints. Responses carry derived progress.
type ChapterHandler struct {
	service chapterService
}

// NewChapterHandler builds a new handler.
func NewChapterHandler(service chapterService) *ChapterHandler {
	return &ChapterHandler{service: service}
}

// Create godoc
// @Summary Create a draft chapter
// @Tags Chapters
// @Accept json
// @Produce json
// @Param payload body dto.CreateChapterRequest true "Chapter payload"
// @Success 201 {object} response.Envelope
// @Router /chapters [post]
func (h *ChapterHandler) Create(c *gin.Context) {
	var req dto.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid chapter payload"))
		return
	}
	chapter, err := h.service.Create(c.Request.Context(), principalFromContext(c), req)
	h.respond(c, http.StatusCreated, chapter, err)
}

// List godoc
// @Summary List chapters
// @Tags Chapters
// @Produce json
// @Param subject query string false "Subject"
// @Param grade query string false "Grade"
// @Param status query string false "Statuses, comma separated"
// @Success 200 {object} response.Envelope
// @Router /chapters [get]
func (h *ChapterHandler) List(c *gin.Context) {
	limit, offset, err := queryPage(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	query := dto.ChapterQuery{Subject: c.Query("subject"), Grade: c.Query("grade"), Limit: limit, Offset: offset}
	for _, status := range queryList(c, "status") {
		query.Status = append(query.Status, models.ChapterStatus(status))
	}
	chapters, err := h.service.List(c.Request.Context(), principalFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	items := make([]dto.ChapterResponse, 0, len(chapters))
	for _, chapter := range chapters {
		items = append(items, dto.NewChapterResponse(chapter))
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get a chapter with progress
// @Tags Chapters
// @Produce json
// @Param id path string true "Chapter ID"
// @Success 200 {object} response.Envelope
// @Router /chapters/{id} [get]
func (h *ChapterHandler) Get(c *gin.Context) {
	chapter, err := h.service.Get(c.Request.Context(), principalFromContext(c), c.Param("id"))
	h.respond(c, http.StatusOK, chapter, err)
}

// Unlock godoc
// @Summary Unlock a chapter
// @Tags Chapters
// @Accept json
// @Produce json
// @Param id path string true "Chapter ID"
// @Param payload body dto.UnlockChapterRequest false "Optional deadline"
// @Success 200 {object} response.Envelope
// @Router /chapters/{id}/unlock [post]
func (h *ChapterHandler) Unlock(c *gin.Context) {
	var req dto.UnlockChapterRequest
	if err := bindVersioned(c, &req, &req.VersionedRequest); err != nil {
		response.Error(c, err)
		return
	}
	chapter, err := h.service.Unlock(c.Request.Context(), principalFromContext(c), c.Param("id"), req)
	h.respond(c, http.StatusOK, chapter, err)
}

// Lock godoc
// @Summary Lock an unlocked chapter
// @Tags Chapters
// @Produce json
// @Param id path string true "Chapter ID"
// @Success 200 {object} response.Envelope
// @Router /chapters/{id}/lock [post]
func (h *ChapterHandler) Lock(c *gin.Context) {
	h.versioned(c, h.service.Lock)
}

// Complete godoc
// @Summary Complete a chapter
// @Tags Chapters
// @Produce json
// @Param id path string true "Chapter ID"
// @Success 200 {object} response.Envelope
// @Router /chapters/{id}/complete [post]
func (h *ChapterHandler) Complete(c *gin.Context) {
	h.versioned(c, h.service.Complete)
}

// RevealScores godoc
// @Summary Reveal scores of a completed chapter
// @Tags Chapters
// @Produce json
// @Param id path string true "Chapter ID"
// @Success 200 {object} response.Envelope
// @Router /chapters/{id}/reveal [post]
func (h *ChapterHandler) RevealScores(c *gin.Context) {
	h.versioned(c, h.service.RevealScores)
}

// SetDeadline godoc
// @Summary Set the deadline of an unlocked chapter
// @Tags Chapters
// @Accept json
// @Produce json
// @Param id path string true "Chapter ID"
// @Param payload body dto.SetDeadlineRequest true "Deadline"
// @Success 200 {object} response.Envelope
// @Router /chapters/{id}/deadline [post]
func (h *ChapterHandler) SetDeadline(c *gin.Context) {
	var req dto.SetDeadlineRequest
	if err := bindVersioned(c, &req, &req.VersionedRequest); err != nil {
		response.Error(c, err)
		return
	}
	chapter, err := h.service.SetDeadline(c.Request.Context(), principalFromContext(c), c.Param("id"), req)
	h.respond(c, http.StatusOK, chapter, err)
}

// UpdatePortions godoc
// @Summary Replace the completed topics of a chapter
// @Tags Chapters
// @Accept json
// @Produce json
// @Param id path string true "Chapter ID"
// @Param payload body dto.UpdatePortionsRequest true "Completed topics"
// @Success 200 {object} response.Envelope
// @Router /chapters/{id}/portions [post]
func (h *ChapterHandler) UpdatePortions(c *gin.Context) {
	var req dto.UpdatePortionsRequest
	if err := bindVersioned(c, &req, &req.VersionedRequest); err != nil {
		response.Error(c, err)
		return
	}
	chapter, err := h.service.UpdatePortions(c.Request.Context(), principalFromContext(c), c.Param("id"), req)
	h.respond(c, http.StatusOK, chapter, err)
}

func (h *ChapterHandler) versioned(c *gin.Context, call func(ctx context.Context, actor access.Principal, id string, expectedVersion *int64) (*models.Chapter, error)) {
	var req dto.TransitionRequest
	if err := bindVersioned(c, &req, &req.VersionedRequest); err != nil {
		response.Error(c, err)
		return
	}
	chapter, err := call(c.Request.Context(), principalFromContext(c), c.Param("id"), req.Version)
	h.respond(c, http.StatusOK, chapter, err)
}

func (h *ChapterHandler) respond(c *gin.Context, status int, chapter *models.Chapter, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	respondVersioned(c, status, dto.NewChapterResponse(*chapter), chapter.Version)
}
