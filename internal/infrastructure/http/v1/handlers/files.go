package handlers

import (
	"github.com/gin-gonic/gin"

	"santiye/internal/core/apperror"
	"santiye/internal/infrastructure/cdn"
)

// FilesHandler proxies document uploads to the CDN file service.
type FilesHandler struct {
	*BaseHandler
	cdn *cdn.Client
}

// NewFilesHandler creates a new files handler.
func NewFilesHandler(base *BaseHandler, client *cdn.Client) *FilesHandler {
	return &FilesHandler{BaseHandler: base, cdn: client}
}

// Upload handles POST /files: forwards the multipart file to the CDN service
// and returns its public URL, to be stored on stock movements as documentUrl.
func (h *FilesHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.Error(c, apperror.NewValidation("file is required").WithDetail("error", err.Error()))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	defer file.Close()

	result, err := h.cdn.Upload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	h.OK(c, result)
}
