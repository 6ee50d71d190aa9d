package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	submissionService service.SubmissionService
	auth              *middleware.Auth
}

func NewSubmissionHandler(submissionService service.SubmissionService, auth *middleware.Auth) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService, auth: auth}
}

func (h *SubmissionHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/submissions")
	group.Use(h.auth.RequireAuth())
	{
		group.GET("", h.ListSubmissions)
		group.GET("/detailed", h.ListDetailedSubmissions)
		group.POST("", h.CreateSubmission)
		group.GET("/:id", h.GetSubmission)
		group.PUT("/:id", h.UpdateSubmission)
		group.DELETE("/:id", h.DeleteSubmission)
	}
}

func listFilterFromQuery(c *gin.Context) service.SubmissionListFilter {
	return service.SubmissionListFilter{
		Location:    c.Query("location"),
		MonthYear:   c.Query("month_year"),
		TemplateID:  c.Query("template_id"),
		Status:      c.Query("status"),
		SubmittedBy: c.Query("submitted_by"),
	}
}

// ListSubmissions returns submissions visible to the caller, newest first
// @Summary      List submissions
// @Tags         submissions
// @Security     BearerAuth
// @Produce      json
// @Param        location     query     string  false  "Filter by service location"
// @Param        month_year   query     string  false  "Filter by reporting month (YYYY-MM)"
// @Param        template_id  query     string  false  "Filter by template"
// @Param        status       query     string  false  "Filter by status"
// @Success      200          {object}  response.Response{data=[]service.SubmissionResponse}
// @Router       /api/submissions [get]
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	submissions, err := h.submissionService.ListSubmissions(c.Request.Context(), middleware.CurrentActor(c), listFilterFromQuery(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, submissions))
}

// ListDetailedSubmissions returns submissions with submitter and template
// names resolved for display.
func (h *SubmissionHandler) ListDetailedSubmissions(c *gin.Context) {
	submissions, err := h.submissionService.ListDetailedSubmissions(c.Request.Context(), middleware.CurrentActor(c), listFilterFromQuery(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, submissions))
}

// CreateSubmission records a new data submission for the caller's location
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	var req service.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request: "+err.Error()))
		return
	}

	result, err := h.submissionService.CreateSubmission(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// GetSubmission returns a single submission if the caller may see it
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	result, err := h.submissionService.GetSubmission(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// UpdateSubmission edits form data or moves a submission through review
func (h *SubmissionHandler) UpdateSubmission(c *gin.Context) {
	var req service.UpdateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request: "+err.Error()))
		return
	}

	result, err := h.submissionService.UpdateSubmission(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// DeleteSubmission permanently removes a submission (admin only)
func (h *SubmissionHandler) DeleteSubmission(c *gin.Context) {
	if err := h.submissionService.DeleteSubmission(c.Request.Context(), middleware.CurrentActor(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Submission deleted successfully"))
}
