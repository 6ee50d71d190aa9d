package handler

import (
	"fmt"
	"net/http"
	"time"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
	auth          *middleware.Auth
}

func NewReportHandler(reportService service.ReportService, auth *middleware.Auth) *ReportHandler {
	return &ReportHandler{reportService: reportService, auth: auth}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/reports")
	group.Use(h.auth.RequireAuth(), h.auth.RequireRole(model.RoleAdmin, model.RoleManager))
	{
		group.GET("/csv", h.ExportCSV)
		group.POST("/pdf", h.ExportPDF)
	}
}

// ExportCSV streams the caller's visible submissions as a CSV download
// @Summary      Export submissions as CSV
// @Tags         reports
// @Security     BearerAuth
// @Produce      text/csv
// @Param        location    query  string  false  "Filter by service location"
// @Param        month_year  query  string  false  "Filter by reporting month (YYYY-MM)"
// @Param        status      query  string  false  "Filter by status"
// @Success      200  {file}  file
// @Router       /api/reports/csv [get]
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	data, err := h.reportService.ExportCSV(c.Request.Context(), middleware.CurrentActor(c), listFilterFromQuery(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	filename := fmt.Sprintf("submissions_%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportPDF renders a statistics report as a PDF download. Grouping defaults
// to location when the body omits group_by.
func (h *ReportHandler) ExportPDF(c *gin.Context) {
	var body struct {
		Filters service.StatisticsFilters `json:"filters"`
		GroupBy string                    `json:"group_by"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request: "+err.Error()))
		return
	}

	data, err := h.reportService.ExportPDF(c.Request.Context(), middleware.CurrentActor(c), service.GenerateStatisticsRequest{
		Filters: body.Filters,
		GroupBy: body.GroupBy,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	filename := fmt.Sprintf("statistics_%s.pdf", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
