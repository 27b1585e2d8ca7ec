package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/tracecase/internal/brain"
	"basegraph.app/tracecase/internal/export"
	"basegraph.app/tracecase/internal/service"
	"basegraph.app/tracecase/internal/service/issue_tracker"
	"basegraph.app/tracecase/internal/store"
)

// respondError maps pipeline and export errors to HTTP statuses.
func respondError(c *gin.Context, err error, fallback string) {
	ctx := c.Request.Context()
	_ = c.Error(err)

	var stageErr *brain.StageError
	switch {
	case errors.Is(err, brain.ErrValidation), errors.Is(err, export.ErrNothingToExport):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, brain.ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, brain.ErrRunNotFound), errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, issue_tracker.ErrNotConfigured), errors.Is(err, service.ErrEvalsDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.As(err, &stageErr):
		slog.ErrorContext(ctx, "pipeline stage failed", "stage", stageErr.Stage, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":  fallback,
			"stage":  stageErr.Stage,
			"detail": err.Error(),
		})
	default:
		slog.ErrorContext(ctx, fallback, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
