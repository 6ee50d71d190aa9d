package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
	auth             *middleware.Auth
}

func NewDashboardHandler(dashboardService service.DashboardService, auth *middleware.Auth) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, auth: auth}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/dashboard")
	group.Use(h.auth.RequireAuth())
	{
		group.GET("/submissions-by-location", h.SubmissionsByLocation)
		group.GET("/missing-reports", h.MissingReports)
	}
}

// SubmissionsByLocation returns per-location submission counts for a month.
// Locations without submissions are included with a zero count.
func (h *DashboardHandler) SubmissionsByLocation(c *gin.Context) {
	result, err := h.dashboardService.SubmissionsByLocation(c.Request.Context(), c.Query("month_year"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// MissingReports lists locations that have not submitted for a month
func (h *DashboardHandler) MissingReports(c *gin.Context) {
	result, err := h.dashboardService.MissingReports(c.Request.Context(), c.Query("month_year"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
