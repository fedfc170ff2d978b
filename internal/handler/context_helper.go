package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-exam-workflow-api/internal/access"
	"github.com/noah-isme/sma-exam-workflow-api/internal/dto"
	"github.com/noah-isme/sma-exam-workflow-api/internal/middleware"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/response"
)

func principalFromContext(c *gin.Context) access.Principal {
	principal, _ := middleware.PrincipalFromContext(c)
	return principal
}

// bindVersioned decodes an optional JSON body into req. An If-Match header fills the version
// when the body does not carry one.
func bindVersioned(c *gin.Context, req interface{}, versioned *dto.VersionedRequest) error {
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload")
		}
	}
	if versioned.Version != nil {
		return nil
	}
	raw := strings.Trim(strings.TrimPrefix(strings.TrimSpace(c.GetHeader("If-Match")), "W/"), `"`)
	if raw == "" || raw == "*" {
		return nil
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || version < 1 {
		return appErrors.Clone(appErrors.ErrValidation, "If-Match must carry an entity version")
	}
	versioned.Version = &version
	return nil
}

// respondVersioned writes data with the entity version in meta and in the ETag.
func respondVersioned(c *gin.Context, status int, data interface{}, version int64) {
	middleware.SetEntityVersion(c, version)
	response.JSON(c, status, data, nil, middleware.ExtractMeta(c))
}

func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func queryPage(c *gin.Context) (limit, offset int, err error) {
	if raw := c.Query("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
			return 0, 0, appErrors.Clone(appErrors.ErrValidation, "limit must be a non-negative integer")
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if offset, err = strconv.Atoi(raw); err != nil || offset < 0 {
			return 0, 0, appErrors.Clone(appErrors.ErrValidation, "offset must be a non-negative integer")
		}
	}
	return limit, offset, nil
}
