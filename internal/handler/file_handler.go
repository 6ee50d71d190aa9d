package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	fileService service.FileService
	auth        *middleware.Auth
}

func NewFileHandler(fileService service.FileService, auth *middleware.Auth) *FileHandler {
	return &FileHandler{fileService: fileService, auth: auth}
}

func (h *FileHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/api/upload", h.auth.RequireAuth(), h.Upload)

	group := router.Group("/api/files")
	group.Use(h.auth.RequireAuth())
	{
		group.GET("/:name", h.Download)
	}
}

// Upload stores a multipart attachment and returns its generated filename
// @Summary      Upload an attachment
// @Tags         files
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "File to upload"
// @Success      201   {object}  response.Response{data=service.UploadResult}
// @Failure      400   {object}  response.Response
// @Router       /api/upload [post]
func (h *FileHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing file in request"))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read uploaded file"))
		return
	}
	defer src.Close()

	result, err := h.fileService.Save(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), src)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// Download serves a previously uploaded attachment by its stored name
func (h *FileHandler) Download(c *gin.Context) {
	path, err := h.fileService.Resolve(c.Param("name"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.File(path)
}
