package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finsight-ai/finsight-be/repository"
	"github.com/finsight-ai/finsight-be/service"
	"github.com/finsight-ai/finsight-be/types"
)

const maxUploadSize = 10 << 20

type UploadHandler struct {
	fileService *service.FileService
	repo        *repository.DocumentRepo
}

func NewUploadHandler(fileService *service.FileService, repo *repository.DocumentRepo) *UploadHandler {
	return &UploadHandler{
		fileService: fileService,
		repo:        repo,
	}
}

// UploadDocumentHandler ingests one multipart PDF upload end to end.
func (h *UploadHandler) UploadDocumentHandler(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid file",
		})
		return
	}
	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "File too large",
		})
		return
	}

	req := types.UploadRequest{
		Title: c.Request.FormValue("title"),
	}

	doc, err := h.fileService.UploadPDF(c.Request.Context(), req, file)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, types.ErrEmptyInput) {
			status = http.StatusBadRequest
		}
		c.JSON(status, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.UploadResponse{
			Document: *doc,
		},
	})
}

// ListDocumentsHandler returns every registered document.
func (h *UploadHandler) ListDocumentsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   h.repo.List(),
	})
}
