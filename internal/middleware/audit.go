package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
)

const (
	auditTenantKey   = "audit_tenant_id"
	auditResourceKey = "audit_resource_id"
)

// AuditWriter persists audit rows.
type AuditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// SetAuditTarget names the tenant and resource of a request that carries no bearer token.
func SetAuditTarget(c *gin.Context, tenantID, resourceID string) {
	c.Set(auditTenantKey, tenantID)
	c.Set(auditResourceKey, resourceID)
}

// Audit creates a middleware that records audit logs after successful requests.
func Audit(repo AuditWriter, logger *zap.Logger, action, resource string) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		log := &models.AuditLog{
			TenantID:  c.GetString(auditTenantKey),
			Action:    action,
			Resource:  resource,
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		}
		if principal, ok := PrincipalFromContext(c); ok {
			log.TenantID = principal.TenantID
			log.UserID = &principal.UserID
		}
		if resourceID := c.GetString(auditResourceKey); resourceID != "" {
			log.ResourceID = &resourceID
		} else if id := c.Param("id"); id != "" {
			log.ResourceID = &id
		}
		if log.TenantID == "" {
			return
		}

		log.NewValues, _ = json.Marshal(map[string]interface{}{
			"path":    c.FullPath(),
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Milliseconds(),
		})

		if err := repo.CreateAuditLog(c.Request.Context(), log); err != nil {
			logger.Warn("failed to persist request audit", zap.String("action", action), zap.Error(err))
		}
	}
}
