package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finsight-ai/finsight-be/config"
	"github.com/finsight-ai/finsight-be/service"
	"github.com/finsight-ai/finsight-be/types"
)

// SessionHandler exposes chat sessions over documents: create, list, ask,
// summarize, export, and reset.
type SessionHandler struct {
	assistant *service.AssistantService
	sessions  *service.SessionStore
	cfg       *config.Config
}

func NewSessionHandler(assistant *service.AssistantService, sessions *service.SessionStore, cfg *config.Config) *SessionHandler {
	return &SessionHandler{
		assistant: assistant,
		sessions:  sessions,
		cfg:       cfg,
	}
}

func (h *SessionHandler) HandleCreateSession(c *gin.Context) {
	var req types.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	session, err := h.sessions.CreateSession(req.DocumentIDs, req.Label)
	if err != nil {
		c.JSON(statusFor(err), types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   session,
	})
}

func (h *SessionHandler) HandleListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   h.sessions.ListSessions(),
	})
}

func (h *SessionHandler) HandleAsk(c *gin.Context) {
	sessionID := c.Param("id")

	var req types.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}
	if req.Model != "" && !h.cfg.AllowsModel(req.Model) {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Unsupported model: " + req.Model,
		})
		return
	}

	resp, err := h.assistant.Ask(c.Request.Context(), sessionID, req.Question, req.Model)
	if err != nil {
		c.JSON(statusFor(err), types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   resp,
	})
}

func (h *SessionHandler) HandleSummary(c *gin.Context) {
	sessionID := c.Param("id")

	var req types.SummaryRequest
	// Body is optional; an empty model falls back to the default.
	_ = c.ShouldBindJSON(&req)
	if req.Model != "" && !h.cfg.AllowsModel(req.Model) {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Unsupported model: " + req.Model,
		})
		return
	}

	summary, err := h.assistant.Summarize(c.Request.Context(), sessionID, req.Model)
	if err != nil {
		c.JSON(statusFor(err), types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   types.SummaryResponse{Summary: summary},
	})
}

// HandleExport returns the session transcript as plain text for download.
func (h *SessionHandler) HandleExport(c *gin.Context) {
	sessionID := c.Param("id")

	transcript, err := h.sessions.ExportChat(sessionID)
	if err != nil {
		c.JSON(statusFor(err), types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=chat_history.txt")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(transcript))
}

// HandleReset drops all sessions, the logout behavior of the UI.
func (h *SessionHandler) HandleReset(c *gin.Context) {
	h.sessions.Reset()
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  true,
		Message: "All sessions cleared",
	})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var cfgErr *types.ConfigError
	switch {
	case errors.Is(err, types.ErrInvalidScope), errors.Is(err, types.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.As(err, &cfgErr):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
