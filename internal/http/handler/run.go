package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/tracecase/internal/http/dto"
	"basegraph.app/tracecase/internal/service"
)

type RunHandler struct {
	testCases service.TestCaseService
}

func NewRunHandler(testCases service.TestCaseService) *RunHandler {
	return &RunHandler{testCases: testCases}
}

// Invoke starts a run. 200 carries the result, 202 the clarification questions.
func (h *RunHandler) Invoke(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("session_id")

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.testCases.Generate(ctx, sessionID, req.ToInput())
	if err != nil {
		respondError(c, err, "failed to generate test cases")
		return
	}

	if outcome.Pending != nil {
		c.JSON(http.StatusAccepted, dto.ToRunResponse(outcome))
		return
	}
	c.JSON(http.StatusOK, dto.ToRunResponse(outcome))
}

func (h *RunHandler) Resume(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("session_id")
	runID := c.Param("run_id")

	var req dto.ResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.testCases.Resume(ctx, sessionID, runID, req.ToReply())
	if err != nil {
		respondError(c, err, "failed to generate test cases")
		return
	}

	c.JSON(http.StatusOK, dto.ToResumeResponse(runID, result))
}

func (h *RunHandler) State(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("session_id")

	status, err := h.testCases.Status(ctx, sessionID)
	if err != nil {
		respondError(c, err, "failed to load run state")
		return
	}

	c.JSON(http.StatusOK, dto.ToRunStateResponse(sessionID, status))
}
