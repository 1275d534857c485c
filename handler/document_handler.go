package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// DocumentHandler serves the original uploaded PDF files back to the client.
type DocumentHandler struct {
	uploadDir string
}

func NewDocumentHandler(uploadDir string) *DocumentHandler {
	return &DocumentHandler{
		uploadDir: uploadDir,
	}
}

func (h *DocumentHandler) ServeDocument(c *gin.Context) {
	requestedName := c.Query("file")
	if requestedName == "" {
		c.String(http.StatusBadRequest, "File parameter is required")
		return
	}
	if filepath.Ext(requestedName) != ".pdf" {
		c.String(http.StatusBadRequest, "Only PDF files are allowed")
		return
	}
	// Reject traversal attempts before touching the filesystem.
	if requestedName != filepath.Base(requestedName) {
		c.String(http.StatusBadRequest, "Invalid file name")
		return
	}

	actualFile, err := h.findFileWithTimestamp(requestedName)
	if err != nil {
		c.String(http.StatusNotFound, "File not found")
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s", requestedName))
	c.File(filepath.Join(h.uploadDir, actualFile))
}

// findFileWithTimestamp matches the requested name against the timestamped
// names the upload pipeline writes.
func (h *DocumentHandler) findFileWithTimestamp(requestedName string) (string, error) {
	files, err := os.ReadDir(h.uploadDir)
	if err != nil {
		return "", err
	}

	baseName := strings.TrimSuffix(requestedName, ".pdf")
	for _, file := range files {
		name := file.Name()
		if !strings.HasSuffix(name, ".pdf") {
			continue
		}

		nameWithoutExt := strings.TrimSuffix(name, ".pdf")
		if nameWithoutExt == baseName {
			return name, nil
		}

		lastUnderscoreIdx := strings.LastIndex(nameWithoutExt, "_")
		if lastUnderscoreIdx == -1 {
			continue
		}
		timestampPart := nameWithoutExt[lastUnderscoreIdx+1:]
		fileBaseName := nameWithoutExt[:lastUnderscoreIdx]
		if _, err := strconv.ParseInt(timestampPart, 10, 64); err == nil && fileBaseName == baseName {
			return name, nil
		}
	}

	return "", fmt.Errorf("file not found: %s", requestedName)
}
