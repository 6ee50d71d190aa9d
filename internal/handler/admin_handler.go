package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler groups the admin-only account lifecycle and settings endpoints.
type AdminHandler struct {
	userService    service.UserService
	settingService service.SettingService
	auth           *middleware.Auth
}

func NewAdminHandler(userService service.UserService, settingService service.SettingService, auth *middleware.Auth) *AdminHandler {
	return &AdminHandler{userService: userService, settingService: settingService, auth: auth}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/admin")
	group.Use(h.auth.RequireAuth(), h.auth.RequireRole(model.RoleAdmin))
	{
		group.GET("/pending-users", h.ListPendingUsers)
		group.POST("/approve-user", h.ApproveUser)
		group.GET("/deleted-users", h.ListDeletedUsers)
		group.POST("/restore-user/:id", h.RestoreUser)
		group.GET("/settings", h.ListSettings)
		group.PUT("/settings/:key", h.UpdateSetting)
	}
}

// ListPendingUsers returns registrations awaiting approval
func (h *AdminHandler) ListPendingUsers(c *gin.Context) {
	users, err := h.userService.ListPendingUsers(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, users))
}

// ApproveUser approves or rejects a pending registration
// @Summary      Approve or reject a pending user
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        decision  body      service.ApproveUserRequest  true  "Approval decision"
// @Success      200       {object}  response.Response{data=service.UserResponse}
// @Router       /api/admin/approve-user [post]
func (h *AdminHandler) ApproveUser(c *gin.Context) {
	var req service.ApproveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request: "+err.Error()))
		return
	}

	result, err := h.userService.ApproveUser(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ListDeletedUsers returns soft-deleted accounts eligible for restore
func (h *AdminHandler) ListDeletedUsers(c *gin.Context) {
	users, err := h.userService.ListDeletedUsers(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, users))
}

// RestoreUser reactivates a soft-deleted account
func (h *AdminHandler) RestoreUser(c *gin.Context) {
	result, err := h.userService.RestoreUser(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ListSettings returns all admin settings
func (h *AdminHandler) ListSettings(c *gin.Context) {
	settings, err := h.settingService.ListSettings(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, settings))
}

type updateSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

// UpdateSetting creates or overwrites a setting by key
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var req updateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request: "+err.Error()))
		return
	}

	result, err := h.settingService.UpdateSetting(c.Request.Context(), c.Param("key"), req.Value, c.GetString("userID"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
