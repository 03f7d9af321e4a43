package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sukryu/pSite/pkg/controllers"
	"github.com/sukryu/pSite/pkg/errors"
)

// UploadField is the multipart form field carrying the image.
const UploadField = "file"

type ImageHandler struct {
	controller controllers.ImageController
}

func NewImageHandler(controller controllers.ImageController) *ImageHandler {
	return &ImageHandler{controller: controller}
}

func (h *ImageHandler) Upload(c *gin.Context) {
	header, err := c.FormFile(UploadField)
	if err != nil {
		c.Error(errors.ErrInvalidInput.WithReason("multipart field \"" + UploadField + "\" is required"))
		return
	}

	f, err := header.Open()
	if err != nil {
		c.Error(errors.ErrFileOperation.WithReason(err.Error()))
		return
	}
	defer f.Close()

	image, err := h.controller.Upload(c.Request.Context(), header.Filename, f)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, image)
}

func (h *ImageHandler) List(c *gin.Context) {
	images, err := h.controller.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": images, "total": len(images)})
}

// Serve streams an uploaded file from the :filename path parameter.
func (h *ImageHandler) Serve(c *gin.Context) {
	p, err := h.controller.Locate(c.Request.Context(), c.Param("filename"))
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(p)
}
