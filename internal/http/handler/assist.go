package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/tracecase/internal/http/dto"
	"basegraph.app/tracecase/internal/service"
)

type AssistHandler struct {
	assist service.AssistService
}

func NewAssistHandler(assist service.AssistService) *AssistHandler {
	return &AssistHandler{assist: assist}
}

func (h *AssistHandler) Assertions(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AssistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assertions, err := h.assist.Assertions(ctx, req.TestCase)
	if err != nil {
		respondError(c, err, "failed to suggest assertions")
		return
	}

	c.JSON(http.StatusOK, dto.AssertionsResponse{
		TestCaseID: req.TestCase.ID,
		Assertions: assertions,
	})
}

func (h *AssistHandler) Snippet(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AssistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snippet, err := h.assist.Snippet(ctx, req.TestCase)
	if err != nil {
		respondError(c, err, "failed to generate snippet")
		return
	}

	c.JSON(http.StatusOK, dto.SnippetResponse{
		TestCaseID: req.TestCase.ID,
		Snippet:    snippet,
	})
}
