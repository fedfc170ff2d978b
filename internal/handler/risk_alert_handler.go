package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-exam-workflow-api/internal/access"
	"github.com/noah-isme/sma-exam-workflow-api/internal/dto"
	"github.com/noah-isme/sma-exam-workflow-api/internal/middleware"
	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/response"
)

type riskAlertService interface {
	List(ctx context.Context, actor access.Principal, query dto.RiskAlertQuery) ([]models.RiskAlert, error)
	Acknowledge(ctx context.Context, actor access.Principal, id string, req dto.AcknowledgeRiskAlertRequest) (*models.RiskAlert, error)
	Summary(ctx context.Context, actor access.Principal) (*models.RiskAlertSummary, bool, error)
	Export(ctx context.Context, actor access.Principal, query dto.RiskAlertQuery, w io.Writer) error
}

type riskEvaluator interface {
	EvaluateAs(ctx context.Context, actor access.Principal) (*dto.RiskEvaluationResult, error)
}

// RiskAlertHandler exposes the risk alert read side and manual evaluation.
type RiskAlertHandler struct {
	alerts  riskAlertService
	monitor riskEvaluator
	now     func() time.Time
}

// NewRiskAlertHandler builds a new handler.
func NewRiskAlertHandler(alerts riskAlertService, monitor riskEvaluator) *RiskAlertHandler {
	return &RiskAlertHandler{alerts: alerts, monitor: monitor, now: time.Now}
}

// List godoc
// @Summary List risk alerts
// @Tags Risk Alerts
// @Produce json
// @Param status query string false "active or resolved"
// @Param type query string false "Alert types, comma separated"
// @Param severity query string false "Severities, comma separated"
// @Param entityId query string false "Test or chapter ID"
// @Success 200 {object} response.Envelope
// @Router /risk-alerts [get]
func (h *RiskAlertHandler) List(c *gin.Context) {
	query, err := riskQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	alerts, err := h.alerts.List(c.Request.Context(), principalFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, alerts, nil)
}

// Summary godoc
// @Summary Risk alert counts
// @Tags Risk Alerts
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /risk-alerts/summary [get]
func (h *RiskAlertHandler) Summary(c *gin.Context) {
	summary, hit, err := h.alerts.Summary(c.Request.Context(), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, summary, nil, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Export risk alert history as CSV
// @Tags Risk Alerts
// @Produce text/csv
// @Success 200 {string} string "CSV"
// @Router /risk-alerts/export [get]
func (h *RiskAlertHandler) Export(c *gin.Context) {
	query, err := riskQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	out := &csvResponse{c: c, filename: fmt.Sprintf("risk-alerts-%s.csv", h.now().UTC().Format("20060102"))}
	if err := h.alerts.Export(c.Request.Context(), principalFromContext(c), query, out); err != nil {
		if !out.started {
			response.Error(c, err)
			return
		}
		_ = c.Error(err)
	}
}

// csvResponse defers the attachment headers until the first byte so errors can still render as JSON.
type csvResponse struct {
	c        *gin.Context
	filename string
	started  bool
}

func (w *csvResponse) Write(p []byte) (int, error) {
	if !w.started {
		w.started = true
		w.c.Header("Content-Type", "text/csv")
		w.c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", w.filename))
		w.c.Header("Cache-Control", "no-store")
		w.c.Status(http.StatusOK)
	}
	return w.c.Writer.Write(p)
}

// Acknowledge godoc
// @Summary Acknowledge and resolve a risk alert
// @Tags Risk Alerts
// @Accept json
// @Produce json
// @Param id path string true "Alert ID"
// @Param payload body dto.AcknowledgeRiskAlertRequest false "Resolution note"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /risk-alerts/{id}/acknowledge [patch]
func (h *RiskAlertHandler) Acknowledge(c *gin.Context) {
	var req dto.AcknowledgeRiskAlertRequest
	if err := bindVersioned(c, &req, &req.VersionedRequest); err != nil {
		response.Error(c, err)
		return
	}
	alert, err := h.alerts.Acknowledge(c.Request.Context(), principalFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondVersioned(c, http.StatusOK, alert, alert.Version)
}

// Evaluate godoc
// @Summary Run the risk monitor for the caller's school
// @Tags Risk Alerts
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /risk-alerts/evaluate [post]
func (h *RiskAlertHandler) Evaluate(c *gin.Context) {
	result, err := h.monitor.EvaluateAs(c.Request.Context(), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

func riskQuery(c *gin.Context) (dto.RiskAlertQuery, error) {
	limit, offset, err := queryPage(c)
	if err != nil {
		return dto.RiskAlertQuery{}, err
	}
	query := dto.RiskAlertQuery{EntityID: c.Query("entityId"), Limit: limit, Offset: offset}
	for _, status := range queryList(c, "status") {
		query.Status = append(query.Status, models.RiskAlertStatus(status))
	}
	for _, alertType := range queryList(c, "type") {
		query.Types = append(query.Types, models.RiskAlertType(alertType))
	}
	for _, severity := range queryList(c, "severity") {
		query.Severities = append(query.Severities, models.RiskSeverity(severity))
	}
	return query, nil
}
