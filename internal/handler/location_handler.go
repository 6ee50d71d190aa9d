package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	locationService service.LocationService
	auth            *middleware.Auth
}

func NewLocationHandler(locationService service.LocationService, auth *middleware.Auth) *LocationHandler {
	return &LocationHandler{locationService: locationService, auth: auth}
}

func (h *LocationHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/locations")
	group.Use(h.auth.RequireAuth())
	{
		group.GET("", h.ListLocations)
		group.GET("/:id", h.GetLocation)

		admin := group.Group("")
		admin.Use(h.auth.RequireRole(model.RoleAdmin))
		{
			admin.POST("", h.CreateLocation)
			admin.PUT("/:id", h.UpdateLocation)
			admin.DELETE("/:id", h.DeleteLocation)
			admin.GET("/deleted", h.ListDeletedLocations)
			admin.POST("/:id/restore", h.RestoreLocation)
		}
	}
}

// ListLocations returns all active service locations
func (h *LocationHandler) ListLocations(c *gin.Context) {
	locations, err := h.locationService.ListLocations(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, locations))
}

// GetLocation returns a single location by ID
func (h *LocationHandler) GetLocation(c *gin.Context) {
	result, err := h.locationService.GetLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// CreateLocation adds a new service location
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var req service.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request: "+err.Error()))
		return
	}

	result, err := h.locationService.CreateLocation(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// UpdateLocation partially updates a location
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	var req service.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request: "+err.Error()))
		return
	}

	result, err := h.locationService.UpdateLocation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// DeleteLocation deactivates a location without losing its submissions
func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	if err := h.locationService.DeleteLocation(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Location deleted successfully"))
}

// ListDeletedLocations returns deactivated locations
func (h *LocationHandler) ListDeletedLocations(c *gin.Context) {
	locations, err := h.locationService.ListDeletedLocations(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, locations))
}

// RestoreLocation reactivates a previously deleted location
func (h *LocationHandler) RestoreLocation(c *gin.Context) {
	result, err := h.locationService.RestoreLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
