package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"basegraph.app/tracecase/internal/http/dto"
	"basegraph.app/tracecase/internal/model"
	"basegraph.app/tracecase/internal/service"
)

type EvalHandler struct {
	evals service.EvalService
}

func NewEvalHandler(evals service.EvalService) *EvalHandler {
	return &EvalHandler{evals: evals}
}

func (h *EvalHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.EvalListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		slog.WarnContext(ctx, "invalid query", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		evals []model.LLMEval
		err   error
	)
	switch {
	case query.RunID != "":
		evals, err = h.evals.ListByRun(ctx, query.RunID)
	case query.Stage != "":
		evals, err = h.evals.ListByStage(ctx, model.Stage(query.Stage), query.Limit)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "run_id or stage is required"})
		return
	}
	if err != nil {
		respondError(c, err, "failed to list evals")
		return
	}

	c.JSON(http.StatusOK, dto.ToEvalListResponse(evals))
}

func (h *EvalHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid eval id"})
		return
	}

	eval, err := h.evals.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to load eval")
		return
	}

	c.JSON(http.StatusOK, eval)
}

func (h *EvalHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.EvalStatsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		slog.WarnContext(ctx, "invalid query", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats, err := h.evals.Stats(ctx, model.Stage(query.Stage), query.Since)
	if err != nil {
		respondError(c, err, "failed to load eval stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
