package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	templateService service.TemplateService
	auth            *middleware.Auth
}

func NewTemplateHandler(templateService service.TemplateService, auth *middleware.Auth) *TemplateHandler {
	return &TemplateHandler{templateService: templateService, auth: auth}
}

func (h *TemplateHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/templates")
	group.Use(h.auth.RequireAuth())
	{
		group.GET("", h.ListTemplates)
		group.GET("/:id", h.GetTemplate)

		admin := group.Group("")
		admin.Use(h.auth.RequireRole(model.RoleAdmin))
		{
			admin.POST("", h.CreateTemplate)
			admin.PUT("/:id", h.UpdateTemplate)
			admin.DELETE("/:id", h.DeleteTemplate)
			admin.GET("/deleted", h.ListDeletedTemplates)
			admin.POST("/:id/restore", h.RestoreTemplate)
		}
	}
}

// ListTemplates returns templates visible to the caller. Admins see all
// templates, other roles only those assigned to their location.
// @Summary      List form templates
// @Tags         templates
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.TemplateResponse}
// @Router       /api/templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.templateService.ListTemplates(c.Request.Context(), c.GetString("userRole"), c.GetString("assignedLocation"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, templates))
}

// GetTemplate returns a single template by ID
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	result, err := h.templateService.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// CreateTemplate defines a new form template
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req service.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request: "+err.Error()))
		return
	}

	result, err := h.templateService.CreateTemplate(c.Request.Context(), req, c.GetString("username"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// UpdateTemplate replaces a template's definition
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	var req service.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request: "+err.Error()))
		return
	}

	result, err := h.templateService.UpdateTemplate(c.Request.Context(), c.Param("id"), req, c.GetString("username"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// DeleteTemplate deactivates a template; existing submissions keep referring to it
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	if err := h.templateService.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Template deleted successfully"))
}

// ListDeletedTemplates returns deactivated templates
func (h *TemplateHandler) ListDeletedTemplates(c *gin.Context) {
	templates, err := h.templateService.ListDeletedTemplates(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, templates))
}

// RestoreTemplate reactivates a previously deleted template
func (h *TemplateHandler) RestoreTemplate(c *gin.Context) {
	result, err := h.templateService.RestoreTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
