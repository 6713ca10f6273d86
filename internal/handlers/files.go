package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/api/internal/media/sniffer"
	"jobboard/api/internal/service"
)

const uploadField = "fileUpload"

func (h HandlerSet) UploadFile(c *gin.Context) {
	// leave room for multipart framing around the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Storage.MaxSize+1<<20)

	file, header, err := c.Request.FormFile(uploadField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_required"})
		return
	}
	defer file.Close()

	folder := c.GetHeader("folder_type")
	if folder == "" {
		folder = c.PostForm("folder")
	}

	result, err := h.svc.Files.Upload(c.Request.Context(), service.UploadInput{
		Folder:       folder,
		DeclaredType: sniffer.MimeTypeFromHTTP(http.Header(header.Header)),
		Body:         file,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
