package handler

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"zhiyu.io/assistantportal/internal/dto"
	"zhiyu.io/assistantportal/pkg/response"
	"zhiyu.io/assistantportal/pkg/storage"
)

type UploadHandler struct {
	blobStorage storage.BlobStorage
	folder      string
}

func NewUploadHandler(blobStorage storage.BlobStorage, folder string) *UploadHandler {
	return &UploadHandler{
		blobStorage: blobStorage,
		folder:      folder,
	}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, `missing form field named "file"`)
		return
	}

	if fileHeader.Filename == "" {
		response.BadRequest(c, "no file selected")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "failed to read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.blobStorage.Upload(c.Request.Context(), file, h.folder, fileHeader.Filename)
	if err != nil {
		response.Error(c, err)
		return
	}

	size := result.Bytes
	if size == 0 {
		size = int(fileHeader.Size)
	}

	// Flat shape: the upload widget reads these fields directly.
	c.JSON(http.StatusCreated, dto.UploadResponse{
		FileType: mimeTypeFor(fileHeader.Filename),
		Filename: fileHeader.Filename,
		URL:      result.URL,
		Size:     size,
	})
}

func mimeTypeFor(fileName string) string {
	if mimeType := mime.TypeByExtension(filepath.Ext(fileName)); mimeType != "" {
		return mimeType
	}
	return "application/octet-stream"
}
