package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moodflow/backend/internal/errors"
	"moodflow/backend/internal/middleware"
	"moodflow/backend/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) Summary(c *gin.Context) {
	days, ok := queryInt(c, "days", service.DefaultAnalyticsDays)
	if !ok {
		writeError(c, apperrors.BadRequest("invalid_days", "days must be a number"))
		return
	}

	report, apiErr := h.analyticsService.Summary(c.Request.Context(), middleware.UserID(c), days)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) Export(c *gin.Context) {
	days, ok := queryInt(c, "days", service.DefaultAnalyticsDays)
	if !ok {
		writeError(c, apperrors.BadRequest("invalid_days", "days must be a number"))
		return
	}

	content, filename, apiErr := h.analyticsService.Export(c.Request.Context(), middleware.UserID(c), days)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, content)
}
