package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finsight-ai/finsight-be/config"
	"github.com/finsight-ai/finsight-be/service"
	"github.com/finsight-ai/finsight-be/types"
)

// NewsHandler exposes the news article pipeline: URL ingestion, Q&A over the
// shared news index, digest, history export, and reset.
type NewsHandler struct {
	news *service.NewsService
	cfg  *config.Config
}

func NewNewsHandler(news *service.NewsService, cfg *config.Config) *NewsHandler {
	return &NewsHandler{
		news: news,
		cfg:  cfg,
	}
}

func (h *NewsHandler) HandleProcessURLs(c *gin.Context) {
	var req types.ProcessURLsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	docs, err := h.news.ProcessURLs(c.Request.Context(), req.URLs)

	var partial *types.PartialIngestError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, types.DataResponse{
			Status: true,
			Data:   types.ProcessURLsResponse{Documents: docs},
		})
	case errors.As(err, &partial):
		failed := make(map[string]string, len(partial.Failed))
		for source, cause := range partial.Failed {
			failed[source] = cause.Error()
		}
		// 207: some URLs made it in, some did not.
		status := http.StatusMultiStatus
		if len(docs) == 0 {
			status = http.StatusBadGateway
		}
		c.JSON(status, types.DataResponse{
			Status:  len(docs) > 0,
			Message: partial.Error(),
			Data:    types.ProcessURLsResponse{Documents: docs, Failed: failed},
		})
	default:
		c.JSON(statusFor(err), types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
	}
}

func (h *NewsHandler) HandleAsk(c *gin.Context) {
	var req types.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}
	model := req.Model
	if model == "" {
		model = h.cfg.DefaultModel
	} else if !h.cfg.AllowsModel(model) {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Unsupported model: " + req.Model,
		})
		return
	}

	resp, err := h.news.Ask(c.Request.Context(), req.Question, model)
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

func (h *NewsHandler) HandleSummary(c *gin.Context) {
	var req types.SummaryRequest
	_ = c.ShouldBindJSON(&req)
	model := req.Model
	if model == "" {
		model = h.cfg.DefaultModel
	} else if !h.cfg.AllowsModel(model) {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Unsupported model: " + req.Model,
		})
		return
	}

	summary, err := h.news.Summarize(c.Request.Context(), model)
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

func (h *NewsHandler) HandleHistory(c *gin.Context) {
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   h.news.History(),
	})
}

func (h *NewsHandler) HandleExport(c *gin.Context) {
	c.Header("Content-Disposition", "attachment; filename=news_chat_history.txt")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(h.news.ExportHistory()))
}

func (h *NewsHandler) HandleClear(c *gin.Context) {
	h.news.Clear()
	c.JSON(http.StatusOK, types.DataResponse{
		Status:  true,
		Message: "News index and history cleared",
	})
}
