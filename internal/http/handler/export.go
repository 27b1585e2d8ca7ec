package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/tracecase/internal/export"
	"basegraph.app/tracecase/internal/http/dto"
	"basegraph.app/tracecase/internal/service"
)

type ExportHandler struct {
	exports service.ExportService
}

func NewExportHandler(exports service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

func (h *ExportHandler) CSV(c *gin.Context) {
	h.download(c, export.FormatCSV)
}

func (h *ExportHandler) JSON(c *gin.Context) {
	h.download(c, export.FormatJSON)
}

func (h *ExportHandler) download(c *gin.Context, format export.Format) {
	ctx := c.Request.Context()

	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := h.exports.Write(&buf, format, req.TestCases); err != nil {
		respondError(c, err, "failed to export test cases")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(req.Name, format)+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (h *ExportHandler) GitLab(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GitLabExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.exports.ToIssueTracker(ctx, req.ToParams())
	if err != nil {
		respondError(c, err, "failed to export test cases to gitlab")
		return
	}

	c.JSON(http.StatusOK, dto.ToGitLabExportResponse(results))
}
