package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
	auth              *middleware.Auth
}

func NewStatisticsHandler(statisticsService service.StatisticsService, auth *middleware.Auth) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService, auth: auth}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/statistics")
	group.Use(h.auth.RequireAuth())
	{
		group.POST("/generate", h.Generate)
		group.POST("/generate-custom-field", h.GenerateCustomField)
		group.GET("/options", h.Options)
		group.GET("/custom-fields", h.CustomFields)
	}
}

// Generate aggregates submissions into grouped counts with a summary
// @Summary      Generate statistics
// @Description  Groups filtered submissions by the requested dimension and returns per-group and overall counts
// @Tags         statistics
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      service.GenerateStatisticsRequest  true  "Grouping and filters"
// @Success      200      {object}  response.Response{data=service.StatisticsResponse}
// @Router       /api/statistics/generate [post]
func (h *StatisticsHandler) Generate(c *gin.Context) {
	var req service.GenerateStatisticsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request: "+err.Error()))
		return
	}

	result, err := h.statisticsService.Generate(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// GenerateCustomField analyzes a single form field across filtered submissions
func (h *StatisticsHandler) GenerateCustomField(c *gin.Context) {
	var req service.CustomFieldStatisticsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request: "+err.Error()))
		return
	}

	result, err := h.statisticsService.GenerateCustomField(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Options returns the filter values available to the statistics UI
func (h *StatisticsHandler) Options(c *gin.Context) {
	result, err := h.statisticsService.Options(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// CustomFields returns the distinct form field names visible to the caller
func (h *StatisticsHandler) CustomFields(c *gin.Context) {
	fields, err := h.statisticsService.CustomFields(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, fields))
}
