package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/finsight-ai/finsight-be/service"
	"github.com/finsight-ai/finsight-be/types"
)

// CSVHandler analyzes an uploaded CSV and returns head rows plus per-column
// statistics. The file is not stored and not indexed.
type CSVHandler struct {
	csvService *service.CSVService
}

func NewCSVHandler(csvService *service.CSVService) *CSVHandler {
	return &CSVHandler{csvService: csvService}
}

func (h *CSVHandler) HandleAnalyze(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid file",
		})
		return
	}
	if strings.ToLower(filepath.Ext(header.Filename)) != ".csv" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Only CSV files are allowed",
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}
	defer file.Close()

	summary, err := h.csvService.Analyze(file)
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
		Data:   summary,
	})
}
