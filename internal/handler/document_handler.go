package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"sakaylink/internal/domain"
	"sakaylink/internal/middleware"
	"sakaylink/internal/service"
)

type DocumentHandler struct {
	documents *service.DocumentService
}

func NewDocumentHandler(documents *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// UploadDocuments accepts the driver's license and background-check images as
// multipart fields and uploads them concurrently. A partial failure reports
// the failing files without discarding the ones that made it.
func (h *DocumentHandler) UploadDocuments(c *gin.Context) {
	uid := middleware.GetUID(c)

	var uploads []service.DocumentUpload
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	for _, field := range []string{domain.DocumentDriverLicense, domain.DocumentBackgroundCheck} {
		header, err := c.FormFile(field)
		if err != nil {
			continue
		}
		f, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read " + field})
			return
		}
		opened = append(opened, f)
		uploads = append(uploads, service.DocumentUpload{Field: field, File: f})
	}
	if len(uploads) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no document files provided"})
		return
	}

	result, err := h.documents.UploadDriverDocuments(c.Request.Context(), uid, uploads)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not persist document urls"})
		return
	}
	if !result.Complete() {
		failures := make(map[string]string, len(result.Failures))
		for field, ferr := range result.Failures {
			failures[field] = ferr.Error()
		}
		c.JSON(http.StatusBadGateway, gin.H{"urls": result.URLs, "failures": failures})
		return
	}
	c.JSON(http.StatusOK, gin.H{"urls": result.URLs})
}
