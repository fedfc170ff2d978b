package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-exam-workflow-api/internal/access"
	"github.com/noah-isme/sma-exam-workflow-api/internal/dto"
	"github.com/noah-isme/sma-exam-workflow-api/internal/middleware"
	"github.com/noah-isme/sma-exam-workflow-api/internal/service"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/response"
)

type printPackService interface {
	Generate(ctx context.Context, actor access.Principal, testID string) (*dto.PrintPackResponse, error)
	Open(ctx context.Context, token string) (*service.PrintPack, error)
}

// PrintPackHandler renders print packs and serves signed downloads.
type PrintPackHandler struct {
	service printPackService
}

// NewPrintPackHandler builds a new handler.
func NewPrintPackHandler(service printPackService) *PrintPackHandler {
	return &PrintPackHandler{service: service}
}

// Generate godoc
// @Summary Render the print pack of a locked paper
// @Tags Print Packs
// @Produce json
// @Param id path string true "Test ID"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /tests/{id}/print-pack [post]
func (h *PrintPackHandler) Generate(c *gin.Context) {
	pack, err := h.service.Generate(c.Request.Context(), principalFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pack)
}

// Download godoc
// @Summary Download a print pack with a signed token
// @Tags Print Packs
// @Produce application/pdf
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /print-packs/download [get]
func (h *PrintPackHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	pack, err := h.service.Open(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer pack.Content.Close() //nolint:errcheck

	middleware.SetAuditTarget(c, pack.TenantID, pack.TestID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", pack.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, -1, "application/pdf", pack.Content, nil)
}
